package memory

import (
	"context"
	"io"
	"log/slog"
	"sort"

	"github.com/habiliai/memorymap/config"
	"github.com/habiliai/memorymap/errors"
	"github.com/samber/lo"
)

type (
	Service interface {
		// Ingestion
		AddTextMemory(ctx context.Context, text string, metadata map[string]any) (string, error)
		AddImageMemory(ctx context.Context, imagePath string, metadata map[string]any) (string, error)
		AddPDFMemory(ctx context.Context, name string, input io.Reader, metadata map[string]any) (string, error)
		AddURLMemory(ctx context.Context, inputUrl string) (string, error)
		ImportFeed(ctx context.Context, feedURL string, limit int) (int, error)

		// Retrieval
		SearchMemories(ctx context.Context, query string, nResults int) (*SearchResult, error)
		SearchByModality(ctx context.Context, modality Modality, query string, nResults int) (*SearchResult, error)
		SearchByDate(ctx context.Context, query, startDate, endDate string, nResults int) (*SearchResult, error)
		Synthesize(ctx context.Context, query, startDate, endDate string, nResultsPerType int) (*SynthesisResult, error)

		// Management
		ListRecent(ctx context.Context, modality string, limit int) ([]Record, error)
		DeleteMemory(ctx context.Context, modality Modality, id string) error
		Stats(ctx context.Context) (*Stats, error)
		Close() error
	}

	service struct {
		textStore  Store
		imageStore Store

		textSearcher  Searcher
		imageSearcher Searcher

		textEmbedder  TextEmbedder
		imageEmbedder ImageEmbedder

		firecrawlConfig *config.FireCrawlConfig
		config          *config.SynthesisConfig
		logger          *slog.Logger
	}
)

var _ Service = (*service)(nil)

// NewService wires the full memory service: one store and one searcher per
// modality. The image searcher embeds query text with the vision model's
// text counterpart so text queries land in the image latent space.
func NewService(
	logger *slog.Logger,
	conf *config.SynthesisConfig,
	firecrawlConf *config.FireCrawlConfig,
	textStore, imageStore Store,
	textEmbedder TextEmbedder,
	imageEmbedder ImageEmbedder,
) Service {
	s := &service{
		textStore:       textStore,
		imageStore:      imageStore,
		textEmbedder:    textEmbedder,
		imageEmbedder:   imageEmbedder,
		firecrawlConfig: firecrawlConf,
		config:          conf,
		logger:          logger,
	}
	s.textSearcher = NewStoreSearcher(textStore, func(ctx context.Context, query string) ([]float32, error) {
		return firstEmbedding(textEmbedder.EmbedTexts(ctx, EmbeddingTaskTypeQuery, query))
	})
	s.imageSearcher = NewStoreSearcher(imageStore, func(ctx context.Context, query string) ([]float32, error) {
		return firstEmbedding(imageEmbedder.EmbedTexts(ctx, EmbeddingTaskTypeQuery, query))
	})
	return s
}

// NewServiceWithSearchers builds a service on injected search providers,
// bypassing stores and embedders. Intended for tests and for callers that
// bring their own retrieval.
func NewServiceWithSearchers(
	logger *slog.Logger,
	conf *config.SynthesisConfig,
	textSearcher, imageSearcher Searcher,
) Service {
	return &service{
		textSearcher:  textSearcher,
		imageSearcher: imageSearcher,
		config:        conf,
		logger:        logger,
	}
}

// SearchMemories searches both modalities and merges the hits by
// similarity score descending.
func (s *service) SearchMemories(ctx context.Context, query string, nResults int) (*SearchResult, error) {
	nResults = s.clampResults(nResults)

	textHits, imageHits := s.gather(ctx, query, nResults, false)

	memories := append(
		normalizeAll(textHits, ModalityText),
		normalizeAll(imageHits, ModalityImage)...,
	)
	sort.SliceStable(memories, func(i, j int) bool {
		return memories[i].Score > memories[j].Score
	})

	return &SearchResult{
		Query:    query,
		Memories: memories,
		Count:    len(memories),
	}, nil
}

// SearchByModality searches a single modality.
func (s *service) SearchByModality(ctx context.Context, modality Modality, query string, nResults int) (*SearchResult, error) {
	nResults = s.clampResults(nResults)

	searcher, err := s.searcherFor(modality)
	if err != nil {
		return nil, err
	}

	hits, err := searcher.Search(ctx, query, nResults)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to search %s memories", modality)
	}

	memories := normalizeAll(hits, modality)
	return &SearchResult{
		Query:    query,
		Memories: memories,
		Count:    len(memories),
	}, nil
}

// SearchByDate searches both modalities and keeps only memories whose
// resolved timestamp falls inside the given range. Unparseable bounds fail
// with ErrInvalidDateRange before any provider call.
func (s *service) SearchByDate(ctx context.Context, query, startDate, endDate string, nResults int) (*SearchResult, error) {
	rng, err := ParseDateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	nResults = s.clampResults(nResults)

	textHits, imageHits := s.gather(ctx, query, nResults, !rng.IsZero())

	memories := append(
		normalizeAll(textHits, ModalityText),
		normalizeAll(imageHits, ModalityImage)...,
	)
	sort.SliceStable(memories, func(i, j int) bool {
		return memories[i].Score > memories[j].Score
	})

	memories = filterByDateRange(memories, rng)
	if len(memories) > nResults {
		memories = memories[:nResults]
	}

	return &SearchResult{
		Query:    query,
		Memories: memories,
		Count:    len(memories),
	}, nil
}

// ListRecent returns the newest memories, optionally restricted to one
// modality ("text", "image", or "all").
func (s *service) ListRecent(ctx context.Context, modality string, limit int) ([]Record, error) {
	if limit < 1 {
		limit = 10
	}

	var records []Record

	if modality == "all" || modality == ModalityText.String() {
		items, err := s.textStore.List(ctx, limit)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to list text memories")
		}
		records = append(records, itemsToRecords(items, ModalityText)...)
	}
	if modality == "all" || modality == ModalityImage.String() {
		items, err := s.imageStore.List(ctx, limit)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to list image memories")
		}
		records = append(records, itemsToRecords(items, ModalityImage)...)
	}
	if records == nil && modality != "all" && modality != ModalityText.String() && modality != ModalityImage.String() {
		return nil, errors.Wrapf(errors.ErrInvalidParams, "unknown memory type %q", modality)
	}

	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// DeleteMemory deletes one memory from the given modality's store.
func (s *service) DeleteMemory(ctx context.Context, modality Modality, id string) error {
	store, err := s.storeFor(modality)
	if err != nil {
		return err
	}
	return store.Delete(ctx, id)
}

// Stats reports memory counts per modality.
func (s *service) Stats(ctx context.Context) (*Stats, error) {
	textCount, err := s.textStore.Count(ctx)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInternal, "failed to count text memories: %v", err)
	}
	imageCount, err := s.imageStore.Count(ctx)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInternal, "failed to count image memories: %v", err)
	}

	return &Stats{
		Total: int(textCount + imageCount),
		Text:  int(textCount),
		Image: int(imageCount),
	}, nil
}

func (s *service) Close() error {
	var errs []error
	if s.textStore != nil {
		errs = append(errs, s.textStore.Close())
	}
	if s.imageStore != nil {
		errs = append(errs, s.imageStore.Close())
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *service) searcherFor(modality Modality) (Searcher, error) {
	switch modality {
	case ModalityText:
		return s.textSearcher, nil
	case ModalityImage:
		return s.imageSearcher, nil
	default:
		return nil, errors.Wrapf(errors.ErrInvalidParams, "unknown modality %q", modality)
	}
}

func (s *service) storeFor(modality Modality) (Store, error) {
	switch modality {
	case ModalityText:
		return s.textStore, nil
	case ModalityImage:
		return s.imageStore, nil
	default:
		return nil, errors.Wrapf(errors.ErrInvalidParams, "unknown modality %q", modality)
	}
}

func (s *service) clampResults(n int) int {
	if n < 1 {
		return 1
	}
	if n > s.config.MaxResultsPerType {
		return s.config.MaxResultsPerType
	}
	return n
}

func itemsToRecords(items []*Item, modality Modality) []Record {
	return lo.Map(items, func(item *Item, _ int) Record {
		return normalize(SearchHit{
			ID:       item.ID,
			Content:  item.Content,
			Metadata: item.Metadata,
		}, modality)
	})
}

func firstEmbedding(embeddings [][]float32, err error) ([]float32, error) {
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, errors.New("no embedding generated")
	}
	return embeddings[0], nil
}
