package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lydlabs/ragcli/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func chunk(id, content string, embedding []float32) domain.Chunk {
	return domain.Chunk{
		ID:        id,
		Content:   content,
		Embedding: embedding,
		Metadata: domain.ChunkMetadata{
			ReportID: "report-1",
			Title:    "Informe de prueba",
			Source:   "LYD",
		},
	}
}

func TestInsertAndCount(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	inserted, err := store.Insert(ctx, []domain.Chunk{
		chunk("c1", "first", []float32{1, 0, 0}),
		chunk("c2", "second", []float32{0, 1, 0}),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestInsertGeneratesIDs(t *testing.T) {
	store := newTestStore(t)

	inserted, err := store.Insert(context.Background(), []domain.Chunk{
		chunk("", "anonymous chunk", []float32{1, 0, 0}),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)
}

func TestInsertEmptyBatch(t *testing.T) {
	store := newTestStore(t)

	inserted, err := store.Insert(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, inserted)
}

func TestInsertAllRowsFailing(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Reject every row at the database level; the insert statement
	// itself still prepares fine.
	_, err := store.db.Exec(`
		CREATE TRIGGER reject_chunks BEFORE INSERT ON chunks
		BEGIN SELECT RAISE(ABORT, 'disk full'); END
	`)
	require.NoError(t, err)

	inserted, err := store.Insert(ctx, []domain.Chunk{
		chunk("c1", "first", []float32{1, 0, 0}),
		chunk("c2", "second", []float32{0, 1, 0}),
	})
	assert.ErrorIs(t, err, domain.ErrStoreWrite)
	assert.Zero(t, inserted)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestInsertPartialFailureKeepsRest(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.db.Exec(`
		CREATE TRIGGER reject_bad BEFORE INSERT ON chunks
		WHEN NEW.content = 'bad'
		BEGIN SELECT RAISE(ABORT, 'rejected'); END
	`)
	require.NoError(t, err)

	inserted, err := store.Insert(ctx, []domain.Chunk{
		chunk("c1", "good", []float32{1, 0, 0}),
		chunk("c2", "bad", []float32{0, 1, 0}),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestQueryOrdersBySimilarity(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Insert(ctx, []domain.Chunk{
		chunk("c1", "orthogonal", []float32{0, 1, 0}),
		chunk("c2", "exact match", []float32{1, 0, 0}),
		chunk("c3", "close match", []float32{0.9, 0.1, 0}),
	})
	require.NoError(t, err)

	results, err := store.Query(ctx, []float32{1, 0, 0}, 0.4, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "exact match", results[0].Content)
	assert.Equal(t, "close match", results[1].Content)
	assert.Greater(t, results[0].Similarity, results[1].Similarity)
}

func TestQueryRespectsLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Insert(ctx, []domain.Chunk{
		chunk("c1", "a", []float32{1, 0, 0}),
		chunk("c2", "b", []float32{0.95, 0.05, 0}),
		chunk("c3", "c", []float32{0.9, 0.1, 0}),
	})
	require.NoError(t, err)

	results, err := store.Query(ctx, []float32{1, 0, 0}, 0, 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestQueryThresholdIsExclusive(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Insert(ctx, []domain.Chunk{
		chunk("c1", "identical", []float32{1, 0, 0}),
	})
	require.NoError(t, err)

	// Similarity of an identical vector is 1.0; a threshold of 1.0
	// must exclude it.
	results, err := store.Query(ctx, []float32{1, 0, 0}, 1.0, 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestQueryKeepsMetadata(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Insert(ctx, []domain.Chunk{
		chunk("c1", "with metadata", []float32{1, 0, 0}),
	})
	require.NoError(t, err)

	results, err := store.Query(ctx, []float32{1, 0, 0}, 0.4, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "report-1", results[0].Metadata.ReportID)
	assert.Equal(t, "Informe de prueba", results[0].Metadata.Title)
}

func TestIndexSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	_, err = store.Insert(ctx, []domain.Chunk{
		chunk("c1", "persisted", []float32{1, 0, 0}),
	})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	results, err := reopened.Query(ctx, []float32{1, 0, 0}, 0.4, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "persisted", results[0].Content)
}

func TestInsertUpsertsByID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Insert(ctx, []domain.Chunk{chunk("c1", "old", []float32{1, 0, 0})})
	require.NoError(t, err)
	_, err = store.Insert(ctx, []domain.Chunk{chunk("c1", "new", []float32{1, 0, 0})})
	require.NoError(t, err)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestVectorRoundTrip(t *testing.T) {
	v := []float32{0.25, -1.5, 3.75, 0}
	assert.Equal(t, v, bytesToVector(vectorToBytes(v)))
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 0}, []float32{1, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.Zero(t, cosineSimilarity([]float32{1, 0}, []float32{1, 0, 0}))
	assert.Zero(t, cosineSimilarity([]float32{0, 0}, []float32{1, 0}))
}
