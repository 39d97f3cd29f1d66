package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// InMemoryStore is a Store kept entirely in process memory. It backs tests
// and ephemeral runs; nothing survives a restart.
type InMemoryStore struct {
	mu    sync.RWMutex
	items map[string]*Item
}

var _ Store = (*InMemoryStore)(nil)

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		items: make(map[string]*Item),
	}
}

func (s *InMemoryStore) Insert(ctx context.Context, item *Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.ID] = item
	return nil
}

func (s *InMemoryStore) Search(ctx context.Context, queryEmbedding []float32, limit int) ([]SearchHit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(queryEmbedding) == 0 {
		return []SearchHit{}, nil
	}

	var candidates []*Item
	for _, item := range s.items {
		if len(item.Embedding) == len(queryEmbedding) {
			candidates = append(candidates, item)
		}
	}
	if len(candidates) == 0 {
		return []SearchHit{}, nil
	}

	dim := len(queryEmbedding)
	queryVec := make([]float64, dim)
	var queryNorm float64
	for i, v := range queryEmbedding {
		queryVec[i] = float64(v)
		queryNorm += float64(v) * float64(v)
	}

	data := make([]float64, len(candidates)*dim)
	norms := make([]float64, len(candidates))
	for i, item := range candidates {
		for j, v := range item.Embedding {
			data[i*dim+j] = float64(v)
			norms[i] += float64(v) * float64(v)
		}
	}

	// one matrix-vector product scores every candidate at once
	matrix := mat.NewDense(len(candidates), dim, data)
	var scores mat.VecDense
	scores.MulVec(matrix, mat.NewVecDense(dim, queryVec))

	queryNorm = math.Sqrt(queryNorm)
	hits := make([]SearchHit, 0, len(candidates))
	for i, item := range candidates {
		score := scores.AtVec(i)
		if denom := math.Sqrt(norms[i]) * queryNorm; denom > 0 {
			score /= denom
		}
		hits = append(hits, SearchHit{
			ID:       item.ID,
			Content:  item.Content,
			Metadata: item.Metadata,
			Score:    float32(score),
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}

	return hits, nil
}

func (s *InMemoryStore) Get(ctx context.Context, id string) (*Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	return item, nil
}

func (s *InMemoryStore) List(ctx context.Context, limit int) ([]*Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]*Item, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *InMemoryStore) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.items)), nil
}

func (s *InMemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

func (s *InMemoryStore) Close() error {
	return nil
}
