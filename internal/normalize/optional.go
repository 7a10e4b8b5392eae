package normalize

// Opt is an explicitly optional value. Absence is distinct from the zero
// value of T, which matters when diffing snapshots: an absent field and a
// zero-valued field must never compare equal.
type Opt[T any] struct {
	Value T
	Set   bool
}

// Some wraps a present value.
func Some[T any](value T) Opt[T] {
	return Opt[T]{Value: value, Set: true}
}

// None returns an absent value.
func None[T any]() Opt[T] {
	return Opt[T]{}
}

// Or returns the contained value, or fallback when absent.
func (o Opt[T]) Or(fallback T) T {
	if o.Set {
		return o.Value
	}

	return fallback
}
