package memory

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/pkg/errors"
)

// OpenAIEmbedder embeds text with text-embedding-3-small. It is an
// alternative text-store backend only; the OpenAI API has no vision
// embedding sharing a space with it, so image memories always go through
// the Nomic embedder regardless of this setting.
type OpenAIEmbedder struct {
	client openai.Client
}

var _ TextEmbedder = (*OpenAIEmbedder)(nil)

func NewOpenAIEmbedder(apiKey string) *OpenAIEmbedder {
	return &OpenAIEmbedder{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
	}
}

func (e *OpenAIEmbedder) Dimensions() int {
	return 1536
}

// EmbedTexts implements TextEmbedder. OpenAI has no document/query task
// distinction, so taskType is ignored.
func (e *OpenAIEmbedder) EmbedTexts(ctx context.Context, _ EmbeddingTaskType, texts ...string) ([][]float32, error) {
	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModelTextEmbedding3Small,
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		},
		EncodingFormat: openai.EmbeddingNewParamsEncodingFormatFloat,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to embed texts")
	}

	embeddings := make([][]float32, len(resp.Data))
	for i, data := range resp.Data {
		embedding := make([]float32, len(data.Embedding))
		for j, v := range data.Embedding {
			embedding[j] = float32(v)
		}
		embeddings[i] = embedding
	}

	return embeddings, nil
}
