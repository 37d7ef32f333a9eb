package mapper

// Key names a typed Stash slot.
type Key[T any] struct {
	name string
}

// NewKey returns a Key for values of type T.
func NewKey[T any](name string) Key[T] {
	return Key[T]{name: name}
}

// String returns the key name.
func (k Key[T]) String() string { return k.name }

// Stash carries intermediate values from one mapper to a later one during a
// single Build. It is never part of the Request and is discarded when Build returns.
type Stash struct {
	values map[string]any
}

// Len returns the number of values not yet taken.
func (s *Stash) Len() int { return len(s.values) }

// Put stores v under key, replacing any previous value.
func Put[T any](s *Stash, key Key[T], v T) {
	if s.values == nil {
		s.values = make(map[string]any)
	}
	s.values[key.name] = v
}

// Take removes and returns the value under key.
func Take[T any](s *Stash, key Key[T]) (T, bool) {
	v, ok := s.values[key.name]
	if !ok {
		var zero T
		return zero, false
	}
	delete(s.values, key.name)
	t, ok := v.(T)
	return t, ok
}
