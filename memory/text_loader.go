package memory

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/habiliai/memorymap/errors"
	"github.com/habiliai/memorymap/internal/stringutils"
	"github.com/mokiat/gog"
)

const textChunkSize = 1000

// AddTextMemory cleans, embeds, and stores a text memory. The memory ID is
// derived from the cleaned content, so saving the same text twice updates
// the existing record instead of duplicating it.
func (s *service) AddTextMemory(ctx context.Context, text string, metadata map[string]any) (string, error) {
	cleaned := stringutils.NormalizeWhitespace(stringutils.Sanitize(text))
	if cleaned == "" {
		return "", errors.Wrapf(errors.ErrInvalidParams, "memory text is empty")
	}

	embedding, err := s.embedDocumentText(ctx, cleaned)
	if err != nil {
		return "", err
	}

	id := contentID(cleaned)
	item := &Item{
		ID:      id,
		Content: cleaned,
		Metadata: gog.Merge(map[string]any{
			"source":   "text",
			"saved_at": time.Now().UTC().Format(time.RFC3339),
		}, metadata),
		Embedding: embedding,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.textStore.Insert(ctx, item); err != nil {
		return "", errors.Wrapf(err, "failed to store text memory")
	}

	s.logger.Debug("stored text memory", "id", id, "chars", len(cleaned))
	return id, nil
}

// embedDocumentText embeds text for storage. Long text is chunked at word
// boundaries and the chunk embeddings are mean-pooled into one vector.
func (s *service) embedDocumentText(ctx context.Context, text string) ([]float32, error) {
	chunks := stringutils.SplitChunks(text, textChunkSize)
	if len(chunks) == 0 {
		return nil, errors.Wrapf(errors.ErrInvalidParams, "no text to embed")
	}

	embeddings, err := s.textEmbedder.EmbedTexts(ctx, EmbeddingTaskTypeDocument, chunks...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to embed text")
	}
	if len(embeddings) != len(chunks) {
		return nil, errors.Errorf("embedding count mismatch: got %d, expected %d", len(embeddings), len(chunks))
	}
	if len(embeddings) == 1 {
		return embeddings[0], nil
	}

	return meanPool(embeddings), nil
}

func meanPool(embeddings [][]float32) []float32 {
	pooled := make([]float32, len(embeddings[0]))
	for _, embedding := range embeddings {
		for i, v := range embedding {
			pooled[i] += v
		}
	}
	n := float32(len(embeddings))
	for i := range pooled {
		pooled[i] /= n
	}
	return pooled
}

// contentID derives a stable memory ID from content bytes.
func contentID(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:16])
}
