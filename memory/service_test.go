package memory_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/habiliai/memorymap/config"
	"github.com/habiliai/memorymap/errors"
	"github.com/habiliai/memorymap/internal/mytesting"
	"github.com/habiliai/memorymap/memory"
	"github.com/stretchr/testify/suite"
)

// fakeEmbedder maps known phrases to fixed unit vectors so search results
// are deterministic without a real embedding provider.
type fakeEmbedder struct {
	vectors map[string][]float32
}

var _ memory.ImageEmbedder = (*fakeEmbedder)(nil)

func (f *fakeEmbedder) EmbedTexts(_ context.Context, _ memory.EmbeddingTaskType, texts ...string) ([][]float32, error) {
	embeddings := make([][]float32, 0, len(texts))
	for _, text := range texts {
		embedding := []float32{0, 0, 1}
		for phrase, vector := range f.vectors {
			if strings.Contains(strings.ToLower(text), phrase) {
				embedding = vector
				break
			}
		}
		embeddings = append(embeddings, embedding)
	}
	return embeddings, nil
}

func (f *fakeEmbedder) EmbedImageFiles(_ context.Context, _ string, images ...[]byte) ([][]float32, error) {
	embeddings := make([][]float32, 0, len(images))
	for range images {
		embeddings = append(embeddings, []float32{0, 1, 0})
	}
	return embeddings, nil
}

func (f *fakeEmbedder) Dimensions() int {
	return 3
}

type ServiceTestSuite struct {
	mytesting.Suite

	service    memory.Service
	textStore  *memory.InMemoryStore
	imageStore *memory.InMemoryStore
}

func (s *ServiceTestSuite) SetupTest() {
	s.Suite.SetupTest()

	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"tokyo":  {1, 0, 0},
		"garden": {0.9, 0.1, 0},
	}}
	s.textStore = memory.NewInMemoryStore()
	s.imageStore = memory.NewInMemoryStore()

	s.service = memory.NewService(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		config.NewSynthesisConfig(),
		config.NewFireCrawlConfig(),
		s.textStore,
		s.imageStore,
		embedder,
		embedder,
	)
}

func (s *ServiceTestSuite) TearDownTest() {
	s.Require().NoError(s.service.Close())
	s.Suite.TearDownTest()
}

func (s *ServiceTestSuite) TestAddTextMemoryAndSearch() {
	id, err := s.service.AddTextMemory(s.Context, "  Ramen   night in Tokyo on 2024-03-12  ", map[string]any{"tags": "food"})
	s.Require().NoError(err)
	s.Require().NotEmpty(id)

	// whitespace is normalized before storage
	item, err := s.textStore.Get(s.Context, id)
	s.Require().NoError(err)
	s.Require().NotNil(item)
	s.Equal("Ramen night in Tokyo on 2024-03-12", item.Content)
	s.Equal("food", item.Metadata["tags"])
	s.Equal("text", item.Metadata["source"])

	// same content maps to the same id
	again, err := s.service.AddTextMemory(s.Context, "Ramen night in Tokyo on 2024-03-12", nil)
	s.Require().NoError(err)
	s.Equal(id, again)

	result, err := s.service.SearchMemories(s.Context, "tokyo", 5)
	s.Require().NoError(err)
	s.Require().NotZero(result.Count)
	s.Equal(id, result.Memories[0].ID)
	s.Require().NotNil(result.Memories[0].Timestamp)
	s.Equal("2024-03-12", result.Memories[0].Timestamp.Format("2006-01-02"))
}

func (s *ServiceTestSuite) TestAddTextMemoryRejectsEmpty() {
	_, err := s.service.AddTextMemory(s.Context, "   \n\t  ", nil)
	s.Require().Error(err)
	s.True(errors.Is(err, errors.ErrInvalidParams))
}

func (s *ServiceTestSuite) TestListRecentAndStats() {
	_, err := s.service.AddTextMemory(s.Context, "Garden visit notes", nil)
	s.Require().NoError(err)
	s.Require().NoError(s.imageStore.Insert(s.Context, &memory.Item{
		ID:      "img1",
		Content: "rose.jpg",
		Metadata: map[string]any{
			"created_at": "2024-04-01T09:00:00Z",
		},
	}))

	stats, err := s.service.Stats(s.Context)
	s.Require().NoError(err)
	s.Equal(2, stats.Total)
	s.Equal(1, stats.Text)
	s.Equal(1, stats.Image)

	records, err := s.service.ListRecent(s.Context, "all", 10)
	s.Require().NoError(err)
	s.Len(records, 2)

	textOnly, err := s.service.ListRecent(s.Context, "text", 10)
	s.Require().NoError(err)
	s.Require().Len(textOnly, 1)
	s.Equal(memory.ModalityText, textOnly[0].Modality)

	imageOnly, err := s.service.ListRecent(s.Context, "image", 10)
	s.Require().NoError(err)
	s.Require().Len(imageOnly, 1)
	s.Require().NotNil(imageOnly[0].Timestamp)
	s.Equal("2024-04-01", imageOnly[0].Timestamp.Format("2006-01-02"))

	_, err = s.service.ListRecent(s.Context, "video", 10)
	s.Require().Error(err)
	s.True(errors.Is(err, errors.ErrInvalidParams))
}

func (s *ServiceTestSuite) TestDeleteMemory() {
	id, err := s.service.AddTextMemory(s.Context, "to be deleted", nil)
	s.Require().NoError(err)

	s.Require().NoError(s.service.DeleteMemory(s.Context, memory.ModalityText, id))

	item, err := s.textStore.Get(s.Context, id)
	s.Require().NoError(err)
	s.Nil(item)

	err = s.service.DeleteMemory(s.Context, memory.Modality("video"), id)
	s.Require().Error(err)
	s.True(errors.Is(err, errors.ErrInvalidParams))
}

func TestService(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}
