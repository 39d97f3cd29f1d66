package memory_test

import (
	"testing"
	"time"

	"github.com/habiliai/memorymap/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStore_InsertAndGet(t *testing.T) {
	store := memory.NewInMemoryStore()
	defer store.Close()
	ctx := t.Context()

	item := &memory.Item{
		ID:        "m1",
		Content:   "first memory",
		Metadata:  map[string]any{"title": "One"},
		Embedding: []float32{0.1, 0.2, 0.3},
		CreatedAt: time.Now(),
	}
	require.NoError(t, store.Insert(ctx, item))

	got, err := store.Get(ctx, "m1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, item.Content, got.Content)
	assert.Equal(t, item.Metadata, got.Metadata)

	missing, err := store.Get(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestInMemoryStore_SearchRanksByCosine(t *testing.T) {
	store := memory.NewInMemoryStore()
	defer store.Close()
	ctx := t.Context()

	require.NoError(t, store.Insert(ctx, &memory.Item{
		ID: "aligned", Content: "points the same way",
		Embedding: []float32{1, 0, 0},
	}))
	require.NoError(t, store.Insert(ctx, &memory.Item{
		ID: "diagonal", Content: "partly aligned",
		Embedding: []float32{1, 1, 0},
	}))
	require.NoError(t, store.Insert(ctx, &memory.Item{
		ID: "orthogonal", Content: "unrelated",
		Embedding: []float32{0, 0, 1},
	}))

	hits, err := store.Search(ctx, []float32{1, 0, 0}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, "aligned", hits[0].ID)
	assert.Equal(t, "diagonal", hits[1].ID)
	assert.Equal(t, "orthogonal", hits[2].ID)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-5)
	assert.InDelta(t, 0.7071, hits[1].Score, 1e-3)
	assert.InDelta(t, 0.0, hits[2].Score, 1e-5)
}

func TestInMemoryStore_SearchLimit(t *testing.T) {
	store := memory.NewInMemoryStore()
	defer store.Close()
	ctx := t.Context()

	for _, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, store.Insert(ctx, &memory.Item{
			ID:        id,
			Embedding: []float32{1, 0},
		}))
	}

	hits, err := store.Search(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	assert.Len(t, hits, 2)
}

func TestInMemoryStore_SearchSkipsMismatchedDimensions(t *testing.T) {
	store := memory.NewInMemoryStore()
	defer store.Close()
	ctx := t.Context()

	require.NoError(t, store.Insert(ctx, &memory.Item{ID: "good", Embedding: []float32{1, 0}}))
	require.NoError(t, store.Insert(ctx, &memory.Item{ID: "bad", Embedding: []float32{1, 0, 0}}))

	hits, err := store.Search(ctx, []float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "good", hits[0].ID)
}

func TestInMemoryStore_ListNewestFirst(t *testing.T) {
	store := memory.NewInMemoryStore()
	defer store.Close()
	ctx := t.Context()

	base := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		require.NoError(t, store.Insert(ctx, &memory.Item{
			ID:        id,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	items, err := store.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "new", items[0].ID)
	assert.Equal(t, "mid", items[1].ID)
}

func TestInMemoryStore_CountAndDelete(t *testing.T) {
	store := memory.NewInMemoryStore()
	defer store.Close()
	ctx := t.Context()

	require.NoError(t, store.Insert(ctx, &memory.Item{ID: "m1"}))
	require.NoError(t, store.Insert(ctx, &memory.Item{ID: "m2"}))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	require.NoError(t, store.Delete(ctx, "m1"))

	count, err = store.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	// deleting a missing id is a no-op
	require.NoError(t, store.Delete(ctx, "ghost"))
}
