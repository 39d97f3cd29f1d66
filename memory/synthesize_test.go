package memory

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/habiliai/memorymap/config"
	"github.com/habiliai/memorymap/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearcher struct {
	hits        []SearchHit
	err         error
	calls       int
	lastN       int
	lastQueries []string
}

func (f *fakeSearcher) Search(ctx context.Context, query string, nResults int) ([]SearchHit, error) {
	f.calls++
	f.lastN = nResults
	f.lastQueries = append(f.lastQueries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.hits, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(textSearcher, imageSearcher Searcher) Service {
	return NewServiceWithSearchers(testLogger(), config.NewSynthesisConfig(), textSearcher, imageSearcher)
}

func textHit(id, content string, score float32) SearchHit {
	return SearchHit{ID: id, Content: content, Score: score}
}

func imageHit(id, name string, score float32, metadata map[string]any) SearchHit {
	return SearchHit{ID: id, Content: name, Score: score, Metadata: metadata}
}

func TestSynthesize_BuildsChronologicalTimeline(t *testing.T) {
	text := &fakeSearcher{hits: []SearchHit{
		textHit("t1", "Ramen in Tokyo on 2024-03-12", 0.93),
		textHit("t2", "Flight booked March 2, 2024 to Japan", 0.88),
	}}
	images := &fakeSearcher{hits: []SearchHit{
		imageHit("i1", "shibuya.jpg", 0.91, map[string]any{"created_at": "2024-03-07T10:00:00Z"}),
	}}

	service := newTestService(text, images)

	result, err := service.Synthesize(t.Context(), "japan trip", "", "", 10)
	require.NoError(t, err)

	assert.Equal(t, "japan trip", result.Query)
	assert.True(t, result.Range.IsZero())
	assert.Equal(t, 2, result.Counts.Text)
	assert.Equal(t, 1, result.Counts.Image)
	assert.Equal(t, 3, result.Counts.Total)
	assert.Equal(t, []string{"t2", "i1", "t1"}, recordIDs(result.Timeline))
}

func TestSynthesize_DateRangeFiltersBothModalities(t *testing.T) {
	text := &fakeSearcher{hits: []SearchHit{
		textHit("in-range", "Kyoto temples on 2024-03-15", 0.9),
		textHit("too-early", "Planning on 2024-01-02", 0.85),
		textHit("undated", "a memory with no date at all", 0.8),
	}}
	images := &fakeSearcher{hits: []SearchHit{
		imageHit("img-in", "torii.jpg", 0.7, map[string]any{"created_at": "2024-03-20T08:00:00Z"}),
		imageHit("img-out", "christmas.jpg", 0.6, map[string]any{"created_at": "2023-12-25T08:00:00Z"}),
	}}

	service := newTestService(text, images)

	result, err := service.Synthesize(t.Context(), "japan", "2024-03-01", "2024-03-31", 5)
	require.NoError(t, err)

	assert.Equal(t, []string{"in-range"}, recordIDs(result.TextRecords))
	assert.Equal(t, []string{"img-in"}, recordIDs(result.ImageRecords))
	assert.Equal(t, []string{"in-range", "img-in"}, recordIDs(result.Timeline))
}

func TestSynthesize_OverfetchOnlyWhenDateScoped(t *testing.T) {
	text := &fakeSearcher{}
	images := &fakeSearcher{}
	service := newTestService(text, images)

	_, err := service.Synthesize(t.Context(), "q", "", "", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, text.lastN)
	assert.Equal(t, 5, images.lastN)

	_, err = service.Synthesize(t.Context(), "q", "2024-03-01", "", 5)
	require.NoError(t, err)
	assert.Equal(t, 15, text.lastN)
	assert.Equal(t, 15, images.lastN)
}

func TestSynthesize_InvalidDateRangeFailsBeforeSearch(t *testing.T) {
	text := &fakeSearcher{}
	images := &fakeSearcher{}
	service := newTestService(text, images)

	_, err := service.Synthesize(t.Context(), "q", "not a date", "", 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidDateRange))
	assert.Zero(t, text.calls)
	assert.Zero(t, images.calls)
}

func TestSynthesize_ProviderFailureDegradesToEmpty(t *testing.T) {
	text := &fakeSearcher{hits: []SearchHit{
		textHit("t1", "notes from 2024-05-05", 0.9),
	}}
	images := &fakeSearcher{err: errors.New("image store unavailable")}

	service := newTestService(text, images)

	result, err := service.Synthesize(t.Context(), "q", "", "", 5)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Counts.Text)
	assert.Zero(t, result.Counts.Image)
	assert.Equal(t, []string{"t1"}, recordIDs(result.Timeline))
}

func TestSynthesize_NoResultsIsValid(t *testing.T) {
	service := newTestService(&fakeSearcher{}, &fakeSearcher{})

	result, err := service.Synthesize(t.Context(), "nothing matches", "", "", 5)
	require.NoError(t, err)
	assert.Zero(t, result.Counts.Total)
	assert.Empty(t, result.Timeline)
}

func TestSynthesize_TruncatesPerTypeAfterFiltering(t *testing.T) {
	text := &fakeSearcher{hits: []SearchHit{
		textHit("t1", "first 2024-03-01", 0.9),
		textHit("t2", "second 2024-03-02", 0.8),
		textHit("t3", "third 2024-03-03", 0.7),
	}}
	service := newTestService(text, &fakeSearcher{})

	result, err := service.Synthesize(t.Context(), "q", "2024-03-01", "2024-03-31", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"t1", "t2"}, recordIDs(result.TextRecords))
}

func TestSearchMemories_MergesByScore(t *testing.T) {
	text := &fakeSearcher{hits: []SearchHit{
		textHit("t1", "text result", 0.7),
	}}
	images := &fakeSearcher{hits: []SearchHit{
		imageHit("i1", "image result", 0.95, nil),
	}}

	service := newTestService(text, images)

	result, err := service.SearchMemories(t.Context(), "q", 5)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Count)
	assert.Equal(t, []string{"i1", "t1"}, recordIDs(result.Memories))
}

func TestSearchByDate(t *testing.T) {
	text := &fakeSearcher{hits: []SearchHit{
		textHit("keep", "meeting on 2024-03-10", 0.9),
		textHit("drop", "meeting on 2023-03-10", 0.8),
	}}
	service := newTestService(text, &fakeSearcher{})

	result, err := service.SearchByDate(t.Context(), "meeting", "2024-01-01", "2024-12-31", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"keep"}, recordIDs(result.Memories))

	_, err = service.SearchByDate(t.Context(), "meeting", "bogus", "", 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidDateRange))
}

func TestSearchByModality(t *testing.T) {
	text := &fakeSearcher{hits: []SearchHit{textHit("t1", "hello", 0.5)}}
	images := &fakeSearcher{hits: []SearchHit{imageHit("i1", "pic.jpg", 0.6, nil)}}
	service := newTestService(text, images)

	result, err := service.SearchByModality(t.Context(), ModalityImage, "q", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"i1"}, recordIDs(result.Memories))
	assert.Zero(t, text.calls)

	_, err = service.SearchByModality(t.Context(), Modality("video"), "q", 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidParams))
}

func TestClampResults(t *testing.T) {
	text := &fakeSearcher{}
	service := newTestService(text, &fakeSearcher{})

	_, err := service.SearchMemories(t.Context(), "q", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, text.lastN)

	_, err = service.SearchMemories(t.Context(), "q", 500)
	require.NoError(t, err)
	assert.Equal(t, 20, text.lastN)
}
