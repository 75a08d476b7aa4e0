package app

import (
	"sync"
	"sync/atomic"
)

// lazy holds a component built on first use. The outcome of the first build,
// error included, is returned to every later caller.
type lazy[T any] struct {
	once  sync.Once
	built atomic.Bool
	val   T
	err   error
}

func (l *lazy[T]) get(build func() (T, error)) (T, error) {
	l.once.Do(func() {
		l.val, l.err = build()
		l.built.Store(true)
	})
	return l.val, l.err
}

// must is get for builders that cannot fail.
func (l *lazy[T]) must(build func() T) T {
	v, _ := l.get(func() (T, error) { return build(), nil })
	return v
}

// peek returns the value if a build has completed successfully, without
// triggering one.
func (l *lazy[T]) peek() (T, bool) {
	var zero T
	if !l.built.Load() || l.err != nil {
		return zero, false
	}
	return l.val, true
}
