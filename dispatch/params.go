package dispatch

import "fmt"

// Params is an untyped parameter dictionary from the host environment.
// Numbers may arrive as int or float64; vectors as []float64 or []int.
// Unknown keys are ignored by every reader.
type Params map[string]any

func (p Params) intVal(key string) (int, bool) {
	switch v := p[key].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// RequiredInt reads a required integer key.
func (p Params) RequiredInt(key string) (int, error) {
	v, ok := p.intVal(key)
	if !ok {
		return 0, fmt.Errorf("%w: missing key %q", ErrConfig, key)
	}
	return v, nil
}

// Int reads an optional integer key with a default.
func (p Params) Int(key string, def int) int {
	if v, ok := p.intVal(key); ok {
		return v
	}
	return def
}

func (p Params) floatVal(key string) (float64, bool) {
	switch v := p[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

// RequiredFloat reads a required floating-point key.
func (p Params) RequiredFloat(key string) (float64, error) {
	v, ok := p.floatVal(key)
	if !ok {
		return 0, fmt.Errorf("%w: missing key %q", ErrConfig, key)
	}
	return v, nil
}

// Float reads an optional floating-point key with a default.
func (p Params) Float(key string, def float64) float64 {
	if v, ok := p.floatVal(key); ok {
		return v
	}
	return def
}

// Bool reads an optional boolean key with a default.
func (p Params) Bool(key string, def bool) bool {
	if v, ok := p[key].(bool); ok {
		return v
	}
	return def
}

// String reads an optional string key with a default.
func (p Params) String(key string, def string) string {
	if v, ok := p[key].(string); ok {
		return v
	}
	return def
}

// RequiredString reads a required string key.
func (p Params) RequiredString(key string) (string, error) {
	v, ok := p[key].(string)
	if !ok {
		return "", fmt.Errorf("%w: missing key %q", ErrConfig, key)
	}
	return v, nil
}

func toFloats(v any) ([]float64, bool) {
	switch a := v.(type) {
	case []float64:
		return a, true
	case []int:
		out := make([]float64, len(a))
		for i, x := range a {
			out[i] = float64(x)
		}
		return out, true
	case float64:
		return []float64{a}, true
	case int:
		return []float64{float64(a)}, true
	default:
		return nil, false
	}
}

// RequiredFloats reads a required host array; a scalar promotes to a
// one-element array.
func (p Params) RequiredFloats(key string) ([]float64, error) {
	v, ok := toFloats(p[key])
	if !ok {
		return nil, fmt.Errorf("%w: missing key %q", ErrConfig, key)
	}
	return v, nil
}

// Floats reads an optional host array with a default.
func (p Params) Floats(key string, def []float64) []float64 {
	if v, ok := toFloats(p[key]); ok {
		return v
	}
	return def
}

// RequiredInts reads a required index array.
func (p Params) RequiredInts(key string) ([]int, error) {
	switch a := p[key].(type) {
	case []int:
		return a, nil
	case []float64:
		out := make([]int, len(a))
		for i, x := range a {
			out[i] = int(x)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: missing key %q", ErrConfig, key)
	}
}

// Sub reads a required nested dictionary.
func (p Params) Sub(key string) (Params, error) {
	switch v := p[key].(type) {
	case Params:
		return v, nil
	case map[string]any:
		return Params(v), nil
	default:
		return nil, fmt.Errorf("%w: missing key %q", ErrConfig, key)
	}
}

// SubList reads a required list of nested dictionaries.
func (p Params) SubList(key string) ([]Params, error) {
	switch v := p[key].(type) {
	case []Params:
		return v, nil
	case []map[string]any:
		out := make([]Params, len(v))
		for i, m := range v {
			out[i] = Params(m)
		}
		return out, nil
	case []any:
		out := make([]Params, len(v))
		for i, m := range v {
			mm, ok := m.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: element %d of %q is not a dictionary", ErrConfig, i, key)
			}
			out[i] = Params(mm)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: missing key %q", ErrConfig, key)
	}
}
