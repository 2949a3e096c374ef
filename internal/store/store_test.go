package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/primedial/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "primedial.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func seedDraws(t *testing.T, st *Store) []int64 {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	draws := []model.Draw{
		{Min: 1, Max: 100, Value: 7, DrawnAt: base},
		{Min: 1, Max: 100, Value: 11, DrawnAt: base.Add(time.Minute)},
		{Min: 1, Max: 100, Value: 7, DrawnAt: base.Add(2 * time.Minute)},
		{Min: 200, Max: 300, Value: 211, DrawnAt: base.Add(3 * time.Minute)},
	}
	ids := make([]int64, 0, len(draws))
	for _, d := range draws {
		id, err := st.InsertDraw(ctx, d)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func TestListDrawsOldestFirst(t *testing.T) {
	st := openTestStore(t)
	ids := seedDraws(t, st)

	draws, err := st.ListDraws(context.Background(), model.HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, draws, 4)
	for i, d := range draws {
		assert.Equal(t, ids[i], d.ID)
	}
	assert.Equal(t, 211, draws[3].Value)
	assert.Equal(t, time.Date(2026, 1, 2, 3, 7, 5, 0, time.UTC), draws[3].DrawnAt)
}

func TestListDrawsLastAndRange(t *testing.T) {
	st := openTestStore(t)
	ids := seedDraws(t, st)

	draws, err := st.ListDraws(context.Background(), model.HistoryFilter{
		Range: &model.Range{Min: 1, Max: 100},
		Last:  2,
	})
	require.NoError(t, err)
	require.Len(t, draws, 2)
	assert.Equal(t, ids[1], draws[0].ID)
	assert.Equal(t, ids[2], draws[1].ID)
}

func TestListDrawsSince(t *testing.T) {
	st := openTestStore(t)
	seedDraws(t, st)

	since := time.Date(2026, 1, 2, 3, 6, 0, 0, time.UTC)
	draws, err := st.ListDraws(context.Background(), model.HistoryFilter{Since: &since})
	require.NoError(t, err)
	require.Len(t, draws, 2)
}

func TestDrawCounts(t *testing.T) {
	st := openTestStore(t)
	seedDraws(t, st)

	counts, err := st.DrawCounts(context.Background(), model.HistoryFilter{Range: &model.Range{Min: 1, Max: 100}})
	require.NoError(t, err)
	assert.Equal(t, []model.DrawCount{{Value: 7, Count: 2}, {Value: 11, Count: 1}}, counts)
}

func TestListDrawsEmpty(t *testing.T) {
	st := openTestStore(t)
	draws, err := st.ListDraws(context.Background(), model.HistoryFilter{Last: 5})
	require.NoError(t, err)
	assert.Empty(t, draws)
}
