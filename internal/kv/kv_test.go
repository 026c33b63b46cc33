package kv_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mildminihi/CardLoopChallengeGame/internal/database"
	"github.com/mildminihi/CardLoopChallengeGame/internal/kv"
)

func stores(t *testing.T) map[string]kv.Store {
	t.Helper()
	db, err := database.OpenMigrated(database.MemoryDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return map[string]kv.Store{
		"memory": kv.NewMemoryStore(),
		"sqlite": kv.NewSQLStore(db),
	}
}

func TestStore(t *testing.T) {
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, ok, err := st.Get(ctx, "a", "wins")
			require.NoError(t, err)
			assert.False(t, ok)

			v, err := st.Incr(ctx, "a", "wins", 1)
			require.NoError(t, err)
			assert.EqualValues(t, 1, v)
			v, err = st.Incr(ctx, "a", "wins", 2)
			require.NoError(t, err)
			assert.EqualValues(t, 3, v)

			require.NoError(t, st.Set(ctx, "a", "high", 7))
			require.NoError(t, st.Set(ctx, "a", "high", 5))
			v, ok, err = st.Get(ctx, "a", "high")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.EqualValues(t, 5, v)

			require.NoError(t, st.Set(ctx, "b", "wins", 9))

			all, err := st.All(ctx, "a")
			require.NoError(t, err)
			assert.Equal(t, map[string]int64{"wins": 3, "high": 5}, all)

			require.NoError(t, st.Clear(ctx, "a"))
			all, err = st.All(ctx, "a")
			require.NoError(t, err)
			assert.Empty(t, all)

			v, ok, err = st.Get(ctx, "b", "wins")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.EqualValues(t, 9, v)
		})
	}
}
