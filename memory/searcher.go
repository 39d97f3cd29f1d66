package memory

import (
	"context"

	"github.com/pkg/errors"
)

// storeSearcher adapts a Store plus a query-embedding function into the
// Searcher capability. The embedding function differs per modality: text
// queries embed with the text model, image-store queries embed with the
// text side of the vision model's shared latent space.
type storeSearcher struct {
	store      Store
	embedQuery func(ctx context.Context, query string) ([]float32, error)
}

var _ Searcher = (*storeSearcher)(nil)

func NewStoreSearcher(store Store, embedQuery func(ctx context.Context, query string) ([]float32, error)) Searcher {
	return &storeSearcher{store: store, embedQuery: embedQuery}
}

func (s *storeSearcher) Search(ctx context.Context, query string, nResults int) ([]SearchHit, error) {
	embedding, err := s.embedQuery(ctx, query)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to embed query")
	}
	return s.store.Search(ctx, embedding, nResults)
}
