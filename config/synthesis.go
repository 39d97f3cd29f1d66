package config

type SynthesisConfig struct {
	// MaxResultsPerType caps how many memories of each modality a single
	// search or synthesis call may return.
	// Default: 20
	MaxResultsPerType int `json:"maxResultsPerType,omitempty" yaml:"maxResultsPerType"`

	// OverfetchFactor determines how many extra candidates to request from
	// each modality when a query is date-scoped, to offset records the date
	// filter will drop. Actual retrieval count = n * OverfetchFactor.
	// Tunable, not a correctness knob.
	// Default: 3
	OverfetchFactor int `json:"overfetchFactor,omitempty" yaml:"overfetchFactor"`
}

func NewSynthesisConfig() *SynthesisConfig {
	return &SynthesisConfig{
		MaxResultsPerType: 20,
		OverfetchFactor:   3,
	}
}
