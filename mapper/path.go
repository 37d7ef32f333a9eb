package mapper

import (
	"fmt"
	"strings"
)

// Set writes v at a dotted path, creating intermediate objects as needed.
func (r Request) Set(path string, v any) error {
	parts := strings.Split(path, ".")
	cur := map[string]any(r)
	for _, p := range parts[:len(parts)-1] {
		next, ok := cur[p]
		if !ok {
			m := make(map[string]any)
			cur[p] = m
			cur = m
			continue
		}
		switch n := next.(type) {
		case map[string]any:
			cur = n
		case Request:
			cur = n
		default:
			return fmt.Errorf("mapper: path %q: %q is %T, not an object", path, p, next)
		}
	}
	cur[parts[len(parts)-1]] = v
	return nil
}

// Lookup reads the value at a dotted path.
func (r Request) Lookup(path string) (any, bool) {
	var cur any = map[string]any(r)
	for p := range strings.SplitSeq(path, ".") {
		var m map[string]any
		switch n := cur.(type) {
		case map[string]any:
			m = n
		case Request:
			m = n
		default:
			return nil, false
		}
		v, ok := m[p]
		if !ok {
			return nil, false
		}
		cur = v
	}
	return cur, true
}
