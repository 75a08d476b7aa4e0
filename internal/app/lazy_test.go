package app

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLazy(t *testing.T) {
	t.Run("builds once under concurrency", func(t *testing.T) {
		var l lazy[int]
		var calls int
		var mu sync.Mutex

		var wg sync.WaitGroup
		for range 16 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				v, err := l.get(func() (int, error) {
					mu.Lock()
					calls++
					mu.Unlock()
					return 42, nil
				})
				assert.NoError(t, err)
				assert.Equal(t, 42, v)
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, calls)
	})

	t.Run("error is sticky", func(t *testing.T) {
		var l lazy[string]
		boom := errors.New("boom")

		_, err := l.get(func() (string, error) { return "", boom })
		require.ErrorIs(t, err, boom)

		_, err = l.get(func() (string, error) { return "late", nil })
		assert.ErrorIs(t, err, boom)

		_, ok := l.peek()
		assert.False(t, ok)
	})

	t.Run("peek does not build", func(t *testing.T) {
		var l lazy[int]
		_, ok := l.peek()
		assert.False(t, ok)

		assert.Equal(t, 7, l.must(func() int { return 7 }))
		v, ok := l.peek()
		assert.True(t, ok)
		assert.Equal(t, 7, v)
	})
}
