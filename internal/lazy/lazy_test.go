package lazy

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValue_ComputesOnce(t *testing.T) {
	var calls int
	v := New(func() (int, error) { calls++; return 42, nil })
	require.Equal(t, 0, calls)

	for i := 0; i < 3; i++ {
		got, err := v.Get()
		require.NoError(t, err)
		require.Equal(t, 42, got)
	}
	require.Equal(t, 1, calls)
}

func TestValue_CachesError(t *testing.T) {
	var calls int
	boom := errors.New("boom")
	v := New(func() (string, error) { calls++; return "", boom })

	_, err := v.Get()
	require.ErrorIs(t, err, boom)
	_, err = v.Get()
	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, calls)
}

func TestValue_ConcurrentGet(t *testing.T) {
	var calls atomic.Int32
	v := New(func() ([]string, error) { calls.Add(1); return []string{"a"}, nil })

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := v.Get()
			require.NoError(t, err)
			require.Equal(t, []string{"a"}, got)
		}()
	}
	wg.Wait()
	require.Equal(t, int32(1), calls.Load())
}
