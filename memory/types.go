package memory

import (
	"time"
)

type (
	// Modality is the type of a memory. Each modality has its own embedding
	// model and its own vector store.
	Modality string

	// SearchHit is a raw, provider-shaped result from one modality's vector
	// store. It carries whatever the store returned; normalization turns it
	// into a Record.
	SearchHit struct {
		ID       string         `json:"id"`
		Content  string         `json:"content"`
		Score    float32        `json:"score"`
		Metadata map[string]any `json:"metadata,omitempty"`
	}

	// Record is the canonical memory unit flowing through search and
	// synthesis. Timestamp is derived per query by the date extractor, never
	// persisted.
	Record struct {
		ID        string         `json:"id"`
		Modality  Modality       `json:"modality"`
		Content   string         `json:"content"`
		Metadata  map[string]any `json:"metadata,omitempty"`
		Score     float32        `json:"score"`
		Timestamp *time.Time     `json:"timestamp,omitempty"`
	}

	// DateRange bounds a date-scoped query. A nil side is unbounded; both
	// bounds are inclusive.
	DateRange struct {
		Start *time.Time `json:"start,omitempty"`
		End   *time.Time `json:"end,omitempty"`
	}

	SearchResult struct {
		Query    string   `json:"query"`
		Memories []Record `json:"memories"`
		Count    int      `json:"count"`
	}

	Counts struct {
		Total int `json:"total"`
		Text  int `json:"text"`
		Image int `json:"image"`
	}

	// SynthesisResult is the output of one synthesis invocation. It is a
	// value object: constructed once after filtering and merging complete,
	// never updated in place.
	SynthesisResult struct {
		Query        string    `json:"query"`
		Range        DateRange `json:"dateRange"`
		TextRecords  []Record  `json:"textRecords"`
		ImageRecords []Record  `json:"imageRecords"`
		Timeline     []Record  `json:"timeline"`
		Counts       Counts    `json:"counts"`
	}

	Stats struct {
		Total int `json:"total"`
		Text  int `json:"text"`
		Image int `json:"image"`
	}
)

const (
	ModalityText  Modality = "text"
	ModalityImage Modality = "image"
)

func (m Modality) String() string {
	return string(m)
}

// IsZero reports whether no date bound was requested.
func (r DateRange) IsZero() bool {
	return r.Start == nil && r.End == nil
}

// Contains reports whether t falls inside the range, inclusive on both
// ends. An absent bound never excludes.
func (r DateRange) Contains(t time.Time) bool {
	if r.Start != nil && t.Before(*r.Start) {
		return false
	}
	if r.End != nil && t.After(*r.End) {
		return false
	}
	return true
}
