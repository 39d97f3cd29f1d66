package memory

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/habiliai/memorymap/errors"
	"github.com/mokiat/gog"
)

var imageMimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// AddImageMemory embeds an image file with the vision model and stores it
// in the image store. The file's modification time is recorded so image
// memories carry a usable timestamp even without caption dates.
func (s *service) AddImageMemory(ctx context.Context, imagePath string, metadata map[string]any) (string, error) {
	mimeType, ok := imageMimeTypes[strings.ToLower(filepath.Ext(imagePath))]
	if !ok {
		return "", errors.Wrapf(errors.ErrInvalidParams, "unsupported image type %q", filepath.Ext(imagePath))
	}

	data, err := os.ReadFile(imagePath)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read image %s", imagePath)
	}
	info, err := os.Stat(imagePath)
	if err != nil {
		return "", errors.Wrapf(err, "failed to stat image %s", imagePath)
	}

	embeddings, err := s.imageEmbedder.EmbedImageFiles(ctx, mimeType, data)
	if err != nil {
		return "", errors.Wrapf(err, "failed to embed image")
	}
	if len(embeddings) != 1 {
		return "", errors.Errorf("embedding count mismatch: got %d, expected 1", len(embeddings))
	}

	sum := sha256.Sum256(data)
	id := hex.EncodeToString(sum[:16])

	content := filepath.Base(imagePath)
	if caption, ok := metadata["description"].(string); ok && caption != "" {
		content = caption
	}

	item := &Item{
		ID:      id,
		Content: content,
		Metadata: gog.Merge(map[string]any{
			"source":     "image",
			"file_path":  imagePath,
			"file_name":  filepath.Base(imagePath),
			"mime_type":  mimeType,
			"created_at": info.ModTime().UTC().Format(time.RFC3339),
		}, metadata),
		Embedding: embeddings[0],
		CreatedAt: time.Now().UTC(),
	}
	if err := s.imageStore.Insert(ctx, item); err != nil {
		return "", errors.Wrapf(err, "failed to store image memory")
	}

	s.logger.Debug("stored image memory", "id", id, "file", imagePath)
	return id, nil
}
