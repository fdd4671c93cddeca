package lazy

import "sync"

// Load returns a Value that calls load on first use and remembers its result, error included.
func Load[T any](load func() (T, error)) *Value[T] {
	return &Value[T]{
		load: load,
	}
}

type Value[T any] struct {
	once  sync.Once
	value T
	err   error
	load  func() (T, error)
}

func (v *Value[T]) Get() (T, error) {
	v.once.Do(func() {
		v.value, v.err = v.load()
	})
	return v.value, v.err
}
