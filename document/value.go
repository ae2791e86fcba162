package document

// Value is one field of a partial attribute patch. The zero Value leaves the
// attribute unchanged, Clear removes it and Some replaces it.
type Value[T any] struct {
	set   bool
	clear bool
	value T
}

// Some returns a patch field that replaces the attribute with v.
func Some[T any](v T) Value[T] {
	return Value[T]{set: true, value: v}
}

// Clear returns a patch field that removes the attribute.
func Clear[T any]() Value[T] {
	return Value[T]{set: true, clear: true}
}

// IsSet reports whether the field changes the attribute at all.
func (v Value[T]) IsSet() bool {
	return v.set
}

// IsClear reports whether the field removes the attribute.
func (v Value[T]) IsClear() bool {
	return v.set && v.clear
}

// Get returns the replacement value when the field is Some.
func (v Value[T]) Get() (T, bool) {
	if !v.set || v.clear {
		var zero T
		return zero, false
	}
	return v.value, true
}

// Resolve merges the field over current: new value wins, Clear yields the
// zero value, unset keeps current.
func (v Value[T]) Resolve(current T) T {
	if !v.set {
		return current
	}
	if v.clear {
		var zero T
		return zero
	}
	return v.value
}
