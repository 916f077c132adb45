package client

import "strconv"

// The embedded trees have no fixed schema, so parsers work on untyped JSON
// values through these total accessors. Every accessor tolerates nil maps and
// wrong types and returns the zero value.

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asList(v any) []any {
	l, _ := v.([]any)
	return l
}

func obj(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	return asMap(m[key])
}

func list(m map[string]any, key string) []any {
	if m == nil {
		return nil
	}
	return asList(m[key])
}

func str(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

// flt reads a float from either a JSON number or a decimal string. The origin
// renders prices as strings ("21.90") but quantities as numbers.
func flt(m map[string]any, key string) float64 {
	if m == nil {
		return 0
	}
	switch v := m[key].(type) {
	case float64:
		return v
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func integer(m map[string]any, key string) int {
	return int(flt(m, key))
}

func boolean(m map[string]any, key string) bool {
	if m == nil {
		return false
	}
	b, _ := m[key].(bool)
	return b
}
