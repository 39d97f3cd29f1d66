package memory

import (
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

// metadataHints are the well-known metadata keys the normalizer inspects.
// Metadata is an open map; anything else rides along untouched.
type metadataHints struct {
	Date        string `mapstructure:"date"`
	Timestamp   string `mapstructure:"timestamp"`
	CreatedAt   string `mapstructure:"created_at"`
	Title       string `mapstructure:"title"`
	Description string `mapstructure:"description"`
	Source      string `mapstructure:"source"`
}

// normalize maps a provider-shaped hit into the canonical Record for one
// modality and resolves its timestamp. Resolution order: the content text,
// then metadata date hints, then other metadata text, then the modality
// fallback (file creation time, which image ingestion records and text
// ingestion does not). Deterministic for a given hit.
func normalize(hit SearchHit, modality Modality) Record {
	hints := decodeHints(hit.Metadata)

	ts := ExtractDate(hit.Content, nil)
	if ts == nil {
		ts = parseDateValue(hints.Date)
	}
	if ts == nil {
		ts = parseDateValue(hints.Timestamp)
	}
	if ts == nil {
		ts = ExtractDate(strings.TrimSpace(hints.Title+" "+hints.Description), nil)
	}
	if ts == nil && modality == ModalityImage {
		ts = parseDateValue(hints.CreatedAt)
	}

	return Record{
		ID:        hit.ID,
		Modality:  modality,
		Content:   hit.Content,
		Metadata:  hit.Metadata,
		Score:     hit.Score,
		Timestamp: ts,
	}
}

func normalizeAll(hits []SearchHit, modality Modality) []Record {
	records := make([]Record, 0, len(hits))
	for _, hit := range hits {
		records = append(records, normalize(hit, modality))
	}
	return records
}

func decodeHints(metadata map[string]any) metadataHints {
	var hints metadataHints
	if len(metadata) == 0 {
		return hints
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &hints,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return hints
	}
	// Decode errors leave the zero hints; metadata is untrusted input and
	// a bad shape just means no date hint.
	_ = decoder.Decode(metadata)
	return hints
}

// parseDateValue parses a metadata scalar that should itself be a date,
// trying machine formats before falling back to the text patterns.
func parseDateValue(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &day
		}
	}
	return ExtractDate(value, nil)
}
