package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	numberOfWorkers     = 20
	incrementsPerWorker = 50
)

// testContract runs the behaviour every backend must share. newStore is
// called once per subtest and must return an empty store for namespace.
func testContract(t *testing.T, newStore func(t *testing.T, namespace string) Store) {
	ctx := context.Background()

	t.Run("first increment is one", func(t *testing.T) {
		s := newStore(t, "ns")
		got, err := s.Increment(ctx, "alice", "wins")
		require.NoError(t, err)
		assert.Equal(t, int64(1), got)
	})

	t.Run("missing key reads zero", func(t *testing.T) {
		s := newStore(t, "ns")
		got, err := s.Get(ctx, "nobody", "wins")
		require.NoError(t, err)
		assert.Equal(t, int64(0), got)
	})

	t.Run("missing field reads zero", func(t *testing.T) {
		s := newStore(t, "ns")
		_, err := s.Increment(ctx, "alice", "wins")
		require.NoError(t, err)

		got, err := s.Get(ctx, "alice", "losses")
		require.NoError(t, err)
		assert.Equal(t, int64(0), got)
	})

	t.Run("get after increment is one greater", func(t *testing.T) {
		s := newStore(t, "ns")
		for i := 0; i < 3; i++ {
			before, err := s.Get(ctx, "page1", "counter")
			require.NoError(t, err)

			n, err := s.Increment(ctx, "page1", "counter")
			require.NoError(t, err)
			assert.Equal(t, before+1, n)

			after, err := s.Get(ctx, "page1", "counter")
			require.NoError(t, err)
			assert.Equal(t, before+1, after)
		}
	})

	t.Run("keys are independent", func(t *testing.T) {
		s := newStore(t, "ns")
		_, err := s.Increment(ctx, "alice", "wins")
		require.NoError(t, err)
		_, err = s.Increment(ctx, "alice", "wins")
		require.NoError(t, err)

		got, err := s.Increment(ctx, "bob", "wins")
		require.NoError(t, err)
		assert.Equal(t, int64(1), got)
	})

	t.Run("concurrent increments are not lost", func(t *testing.T) {
		s := newStore(t, "ns")

		var wg sync.WaitGroup
		for i := 0; i < numberOfWorkers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for c := 0; c < incrementsPerWorker; c++ {
					_, err := s.Increment(ctx, "hot", "counter")
					assert.NoError(t, err)
				}
			}()
		}
		wg.Wait()

		got, err := s.Get(ctx, "hot", "counter")
		require.NoError(t, err)
		assert.Equal(t, int64(numberOfWorkers*incrementsPerWorker), got)
	})
}
