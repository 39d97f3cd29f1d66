package memory

import (
	"context"
	"time"
)

type (
	// Item is the persisted form of a memory inside one modality's store.
	Item struct {
		ID        string         `json:"id"`
		Content   string         `json:"content"`
		Metadata  map[string]any `json:"metadata,omitempty"`
		Embedding []float32      `json:"-"`
		CreatedAt time.Time      `json:"created_at"`
	}

	// Store is one modality's vector store. Text and image memories live in
	// separate stores because their embedding models differ in dimension.
	Store interface {
		Insert(ctx context.Context, item *Item) error
		Search(ctx context.Context, queryEmbedding []float32, limit int) ([]SearchHit, error)
		Get(ctx context.Context, id string) (*Item, error)
		List(ctx context.Context, limit int) ([]*Item, error)
		Count(ctx context.Context) (int64, error)
		Delete(ctx context.Context, id string) error
		Close() error
	}

	// Searcher is the search-provider capability the synthesis pipeline
	// consumes: query text in, ranked hits out. One instance per modality.
	// Production searchers bind a Store to a query embedder; tests inject
	// deterministic stand-ins.
	Searcher interface {
		Search(ctx context.Context, query string, nResults int) ([]SearchHit, error)
	}
)
