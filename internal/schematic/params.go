package schematic

import "fmt"

// ParamMap holds resolved parameter values keyed by parameter name.
// Synthesis only reads from it.
type ParamMap map[string]any

func (p ParamMap) Get(name string) (any, bool) {
	if p == nil {
		return nil, false
	}
	val, ok := p[name]
	return val, ok
}

// String returns the named parameter formatted as a string.
func (p ParamMap) String(name string) (string, bool) {
	val, ok := p.Get(name)
	if !ok || val == nil {
		return "", false
	}
	if s, ok := val.(string); ok {
		return s, true
	}
	return fmt.Sprint(val), true
}
