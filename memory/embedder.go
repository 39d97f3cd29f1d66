package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/pkg/errors"
)

type (
	EmbeddingTaskType string

	// TextEmbedder embeds text for storage and querying.
	TextEmbedder interface {
		EmbedTexts(ctx context.Context, taskType EmbeddingTaskType, texts ...string) ([][]float32, error)
		Dimensions() int
	}

	// ImageEmbedder also embeds image bytes, into the same latent space as
	// its text embeddings so that text queries can retrieve images.
	ImageEmbedder interface {
		TextEmbedder
		EmbedImageFiles(ctx context.Context, mimeType string, images ...[]byte) ([][]float32, error)
	}

	// NomicEmbedder talks to the Nomic Atlas embedding API. The text and
	// vision v1.5 models share a latent space, which is what makes
	// cross-modal image search work.
	NomicEmbedder struct {
		client *http.Client
		apiKey string
	}
)

const (
	EmbeddingTaskTypeDocument EmbeddingTaskType = "search_document"
	EmbeddingTaskTypeQuery    EmbeddingTaskType = "search_query"

	nomicTextEndpoint  = "https://api-atlas.nomic.ai/v1/embedding/text"
	nomicImageEndpoint = "https://api-atlas.nomic.ai/v1/embedding/image"

	nomicTextModel   = "nomic-embed-text-v1.5"
	nomicVisionModel = "nomic-embed-vision-v1.5"
)

var _ ImageEmbedder = (*NomicEmbedder)(nil)

func (t EmbeddingTaskType) String() string {
	return string(t)
}

func NewNomicEmbedder(apiKey string) *NomicEmbedder {
	return &NomicEmbedder{client: http.DefaultClient, apiKey: apiKey}
}

func (e *NomicEmbedder) Dimensions() int {
	return 768
}

func (e *NomicEmbedder) EmbedTexts(ctx context.Context, taskType EmbeddingTaskType, texts ...string) ([][]float32, error) {
	var requestBody bytes.Buffer
	if err := json.NewEncoder(&requestBody).Encode(struct {
		TaskType string   `json:"task_type"`
		Model    string   `json:"model"`
		Texts    []string `json:"texts"`
	}{
		TaskType: taskType.String(),
		Model:    nomicTextModel,
		Texts:    texts,
	}); err != nil {
		return nil, errors.Wrapf(err, "failed to encode request body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, nomicTextEndpoint, &requestBody)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")

	return e.send(req)
}

func (e *NomicEmbedder) EmbedImageFiles(ctx context.Context, mimeType string, images ...[]byte) ([][]float32, error) {
	var requestBody bytes.Buffer
	writer := multipart.NewWriter(&requestBody)

	if err := writer.WriteField("model", nomicVisionModel); err != nil {
		return nil, errors.Wrapf(err, "failed to write model field")
	}

	filename := "image.jpg"
	switch mimeType {
	case "image/png":
		filename = "image.png"
	case "image/gif":
		filename = "image.gif"
	case "image/webp":
		filename = "image.webp"
	}

	for i, image := range images {
		part, err := writer.CreateFormFile("images", filename)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create form file %d", i)
		}
		if _, err := io.Copy(part, bytes.NewReader(image)); err != nil {
			return nil, errors.Wrapf(err, "failed to copy image data %d", i)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, errors.Wrapf(err, "failed to close multipart writer")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, nomicImageEndpoint, &requestBody)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create request")
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return e.send(req)
}

func (e *NomicEmbedder) send(req *http.Request) ([][]float32, error) {
	req.Header.Set("Authorization", "Bearer "+e.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to send request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, errors.Errorf("embedding request failed: HTTP %d - %s", resp.StatusCode, string(body))
	}

	var response struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, errors.Wrapf(err, "failed to decode response")
	}

	return response.Embeddings, nil
}
