package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/habiliai/memorymap/errors"
	"github.com/habiliai/memorymap/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	memory.Service

	searchResult    *memory.SearchResult
	synthesisResult *memory.SynthesisResult
	stats           *memory.Stats
	savedText       string
	err             error
}

func (s *stubService) AddTextMemory(_ context.Context, text string, _ map[string]any) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.savedText = text
	return "id-123", nil
}

func (s *stubService) SearchMemories(_ context.Context, _ string, _ int) (*memory.SearchResult, error) {
	return s.searchResult, s.err
}

func (s *stubService) SearchByDate(_ context.Context, _, _, _ string, _ int) (*memory.SearchResult, error) {
	return s.searchResult, s.err
}

func (s *stubService) Synthesize(_ context.Context, _, _, _ string, _ int) (*memory.SynthesisResult, error) {
	return s.synthesisResult, s.err
}

func (s *stubService) Stats(_ context.Context) (*memory.Stats, error) {
	return s.stats, s.err
}

func newTestHandler(service memory.Service) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(logger, service, nil).Handler()
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	handler := newTestHandler(&stubService{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestAddTextMemoryEndpoint(t *testing.T) {
	service := &stubService{}
	handler := newTestHandler(service)

	rec := postJSON(t, handler, "/memories/text", map[string]any{
		"text":     "remember this",
		"metadata": map[string]any{"tags": "test"},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"id-123"`)
	assert.Equal(t, "remember this", service.savedText)
}

func TestSearchEndpoint(t *testing.T) {
	ts := time.Date(2024, time.March, 12, 0, 0, 0, 0, time.UTC)
	service := &stubService{searchResult: &memory.SearchResult{
		Query: "japan",
		Count: 1,
		Memories: []memory.Record{
			{ID: "t1", Modality: memory.ModalityText, Content: "Tokyo", Score: 0.9, Timestamp: &ts},
		},
	}}
	handler := newTestHandler(service)

	rec := postJSON(t, handler, "/search", map[string]any{"query": "japan"})

	require.Equal(t, http.StatusOK, rec.Code)

	var result memory.SearchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 1, result.Count)
	assert.Equal(t, "t1", result.Memories[0].ID)
}

func TestSearchEndpoint_InvalidDateRange(t *testing.T) {
	service := &stubService{err: errors.Wrapf(errors.ErrInvalidDateRange, "unrecognized date %q", "bogus")}
	handler := newTestHandler(service)

	rec := postJSON(t, handler, "/search", map[string]any{
		"query":      "japan",
		"start_date": "bogus",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatsEndpointInternalError(t *testing.T) {
	service := &stubService{err: errors.Wrapf(errors.ErrInternal, "failed to count text memories: disk gone")}
	handler := newTestHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSynthesizeEndpoint(t *testing.T) {
	service := &stubService{synthesisResult: &memory.SynthesisResult{
		Query:  "trip",
		Counts: memory.Counts{Total: 1, Text: 1},
		Timeline: []memory.Record{
			{ID: "t1", Modality: memory.ModalityText, Content: "note"},
		},
	}}
	handler := newTestHandler(service)

	rec := postJSON(t, handler, "/synthesize", map[string]any{"query": "trip"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"timeline"`)
	assert.Contains(t, rec.Body.String(), `"counts"`)
}

func TestStatsEndpoint(t *testing.T) {
	service := &stubService{stats: &memory.Stats{Total: 5, Text: 3, Image: 2}}
	handler := newTestHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":5`)
}

func TestAddTextMemoryEndpoint_BadJSON(t *testing.T) {
	handler := newTestHandler(&stubService{})

	req := httptest.NewRequest(http.MethodPost, "/memories/text", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
