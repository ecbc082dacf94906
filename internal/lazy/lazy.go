// Package lazy provides a compute-once value. The first Get runs the
// function; every later Get returns the cached value and error. There is no
// way to invalidate a value.
package lazy

import "sync"

// Value is a memoized result of fn.
type Value[T any] struct {
	once sync.Once
	fn   func() (T, error)
	val  T
	err  error
}

// New wraps fn; fn runs at most once.
func New[T any](fn func() (T, error)) *Value[T] {
	return &Value[T]{fn: fn}
}

// Get returns the value, computing it on first access.
func (v *Value[T]) Get() (T, error) {
	v.once.Do(func() {
		v.val, v.err = v.fn()
		v.fn = nil
	})
	return v.val, v.err
}
