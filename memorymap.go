package memorymap

import (
	"context"
	"io"
	"log/slog"

	"github.com/habiliai/memorymap/config"
	"github.com/habiliai/memorymap/errors"
	"github.com/habiliai/memorymap/internal/mylog"
	"github.com/habiliai/memorymap/memory"
	"github.com/habiliai/memorymap/narrative"
)

type (
	// MemoryMap is the top-level entry point: a personal semantic-memory
	// store that saves text and image memories and recalls them by meaning,
	// by date, or as a chronological timeline.
	MemoryMap struct {
		service  memory.Service
		narrator *narrative.Generator
		logger   *slog.Logger

		logConfig       *config.LogConfig
		storeConfig     *config.StoreConfig
		embedderConfig  *config.EmbedderConfig
		synthesisConfig *config.SynthesisConfig
		firecrawlConfig *config.FireCrawlConfig
		narrativeConfig *config.NarrativeConfig

		textStore  memory.Store
		imageStore memory.Store
	}
	Option func(*MemoryMap)
)

func NewMemoryMap(ctx context.Context, optionFuncs ...Option) (*MemoryMap, error) {
	m := &MemoryMap{
		logConfig:       config.NewLogConfig(),
		storeConfig:     config.NewStoreConfig(),
		embedderConfig:  config.NewEmbedderConfig(),
		synthesisConfig: config.NewSynthesisConfig(),
		firecrawlConfig: config.NewFireCrawlConfig(),
		narrativeConfig: config.NewNarrativeConfig(),
	}
	for _, f := range optionFuncs {
		f(m)
	}

	if m.logger == nil {
		m.logger = mylog.NewLogger(m.logConfig.LogLevel, m.logConfig.LogHandler)
	}

	if m.service == nil {
		if err := m.embedderConfig.Validate(); err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidConfig, "%v", err)
		}

		imageEmbedder := memory.NewNomicEmbedder(m.embedderConfig.NomicAPIKey)

		var textEmbedder memory.TextEmbedder
		switch m.embedderConfig.Provider {
		case "openai":
			textEmbedder = memory.NewOpenAIEmbedder(m.embedderConfig.OpenAIAPIKey)
		default:
			textEmbedder = imageEmbedder
		}

		// A store provided via WithStores is kept; only missing ones are
		// built from config.
		var openedTextStore bool
		if m.textStore == nil {
			store, err := openStore(m.storeConfig, m.storeConfig.TextSqlitePath, textEmbedder.Dimensions())
			if err != nil {
				return nil, err
			}
			m.textStore = store
			openedTextStore = true
		}
		if m.imageStore == nil {
			store, err := openStore(m.storeConfig, m.storeConfig.ImageSqlitePath, imageEmbedder.Dimensions())
			if err != nil {
				if openedTextStore {
					m.textStore.Close()
				}
				return nil, err
			}
			m.imageStore = store
		}

		m.service = memory.NewService(
			m.logger,
			m.synthesisConfig,
			m.firecrawlConfig,
			m.textStore,
			m.imageStore,
			textEmbedder,
			imageEmbedder,
		)
	}

	if m.narrator == nil && m.narrativeConfig.AnthropicAPIKey != "" {
		narrator, err := narrative.NewGenerator(m.narrativeConfig)
		if err != nil {
			return nil, err
		}
		m.narrator = narrator
	}

	return m, nil
}

func openStore(conf *config.StoreConfig, sqlitePath string, dims int) (memory.Store, error) {
	if !conf.SqliteEnabled {
		return memory.NewInMemoryStore(), nil
	}
	return memory.NewSqliteStore(sqlitePath, dims)
}

func (m *MemoryMap) SaveText(ctx context.Context, text string, metadata map[string]any) (string, error) {
	return m.service.AddTextMemory(ctx, text, metadata)
}

func (m *MemoryMap) SaveImage(ctx context.Context, imagePath string, metadata map[string]any) (string, error) {
	return m.service.AddImageMemory(ctx, imagePath, metadata)
}

func (m *MemoryMap) SavePDF(ctx context.Context, name string, input io.Reader, metadata map[string]any) (string, error) {
	return m.service.AddPDFMemory(ctx, name, input, metadata)
}

func (m *MemoryMap) SaveURL(ctx context.Context, url string) (string, error) {
	return m.service.AddURLMemory(ctx, url)
}

func (m *MemoryMap) ImportFeed(ctx context.Context, feedURL string, limit int) (int, error) {
	return m.service.ImportFeed(ctx, feedURL, limit)
}

func (m *MemoryMap) Search(ctx context.Context, query string, nResults int) (*memory.SearchResult, error) {
	return m.service.SearchMemories(ctx, query, nResults)
}

func (m *MemoryMap) SearchByDate(ctx context.Context, query, startDate, endDate string, nResults int) (*memory.SearchResult, error) {
	return m.service.SearchByDate(ctx, query, startDate, endDate, nResults)
}

func (m *MemoryMap) Synthesize(ctx context.Context, query, startDate, endDate string, nResultsPerType int) (*memory.SynthesisResult, error) {
	return m.service.Synthesize(ctx, query, startDate, endDate, nResultsPerType)
}

// Narrate turns a synthesis result into a prose narrative. Requires an
// Anthropic API key.
func (m *MemoryMap) Narrate(ctx context.Context, result *memory.SynthesisResult) (string, error) {
	if m.narrator == nil {
		return "", errors.Wrapf(errors.ErrInvalidConfig, "narrative generation requires ANTHROPIC_API_KEY")
	}
	return m.narrator.Generate(ctx, result)
}

func (m *MemoryMap) Stats(ctx context.Context) (*memory.Stats, error) {
	return m.service.Stats(ctx)
}

func (m *MemoryMap) GetMemoryService() memory.Service {
	return m.service
}

func (m *MemoryMap) Logger() *slog.Logger {
	return m.logger
}

func (m *MemoryMap) GetNarrator() *narrative.Generator {
	return m.narrator
}

func (m *MemoryMap) Close() error {
	if m.service == nil {
		return nil
	}
	return m.service.Close()
}

func WithLogger(logger *slog.Logger) Option {
	return func(m *MemoryMap) {
		m.logger = logger
	}
}

func WithLogConfig(logConfig *config.LogConfig) Option {
	return func(m *MemoryMap) {
		m.logConfig = logConfig
	}
}

func WithStoreConfig(storeConfig *config.StoreConfig) Option {
	return func(m *MemoryMap) {
		m.storeConfig = storeConfig
	}
}

func WithEmbedderConfig(embedderConfig *config.EmbedderConfig) Option {
	return func(m *MemoryMap) {
		m.embedderConfig = embedderConfig
	}
}

// WithEmbedderProvider switches the text embedding backend without
// touching the API keys already picked up from the environment.
func WithEmbedderProvider(provider string) Option {
	return func(m *MemoryMap) {
		m.embedderConfig.Provider = provider
	}
}

func WithSynthesisConfig(synthesisConfig *config.SynthesisConfig) Option {
	return func(m *MemoryMap) {
		m.synthesisConfig = synthesisConfig
	}
}

func WithNomicAPIKey(apiKey string) Option {
	return func(m *MemoryMap) {
		m.embedderConfig.NomicAPIKey = apiKey
	}
}

func WithOpenAIAPIKey(apiKey string) Option {
	return func(m *MemoryMap) {
		m.embedderConfig.OpenAIAPIKey = apiKey
	}
}

func WithAnthropicAPIKey(apiKey string) Option {
	return func(m *MemoryMap) {
		m.narrativeConfig.AnthropicAPIKey = apiKey
	}
}

func WithStores(textStore, imageStore memory.Store) Option {
	return func(m *MemoryMap) {
		m.textStore = textStore
		m.imageStore = imageStore
	}
}

func WithMemoryService(service memory.Service) Option {
	return func(m *MemoryMap) {
		m.service = service
	}
}
