package pointers

// Ptr returns a pointer to the given value.
func Ptr[T any](value T) *T {
	return &value
}

// ValueOrZero dereferences ptr, returning the zero value when ptr is nil.
func ValueOrZero[T any](ptr *T) T {
	if ptr == nil {
		var zero T

		return zero
	}

	return *ptr
}
