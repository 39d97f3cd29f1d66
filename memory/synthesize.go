package memory

import (
	"context"
	"sync"
)

// gather runs both modality searches concurrently. When the search is
// date-scoped it over-fetches so that date filtering still leaves enough
// candidates. A failing provider degrades to an empty slice for its
// modality; the other modality's hits are returned as-is.
func (s *service) gather(ctx context.Context, query string, nResults int, dateScoped bool) (textHits, imageHits []SearchHit) {
	fetchN := nResults
	if dateScoped {
		fetchN = nResults * s.config.OverfetchFactor
	}

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		hits, err := s.textSearcher.Search(ctx, query, fetchN)
		if err != nil {
			s.logger.Warn("text memory search failed, continuing without text results", "err", err)
			return
		}
		textHits = hits
	}()
	go func() {
		defer wg.Done()
		hits, err := s.imageSearcher.Search(ctx, query, fetchN)
		if err != nil {
			s.logger.Warn("image memory search failed, continuing without image results", "err", err)
			return
		}
		imageHits = hits
	}()

	wg.Wait()
	return textHits, imageHits
}

// Synthesize retrieves text and image memories relevant to the query,
// restricts them to the optional date range, and assembles a chronological
// timeline across both modalities.
func (s *service) Synthesize(ctx context.Context, query, startDate, endDate string, nResultsPerType int) (*SynthesisResult, error) {
	rng, err := ParseDateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	nResultsPerType = s.clampResults(nResultsPerType)

	textHits, imageHits := s.gather(ctx, query, nResultsPerType, !rng.IsZero())

	textRecords := filterByDateRange(normalizeAll(textHits, ModalityText), rng)
	imageRecords := filterByDateRange(normalizeAll(imageHits, ModalityImage), rng)

	if len(textRecords) > nResultsPerType {
		textRecords = textRecords[:nResultsPerType]
	}
	if len(imageRecords) > nResultsPerType {
		imageRecords = imageRecords[:nResultsPerType]
	}

	timeline := buildTimeline(textRecords, imageRecords)

	return &SynthesisResult{
		Query:        query,
		Range:        rng,
		TextRecords:  textRecords,
		ImageRecords: imageRecords,
		Timeline:     timeline,
		Counts: Counts{
			Total: len(timeline),
			Text:  len(textRecords),
			Image: len(imageRecords),
		},
	}, nil
}
