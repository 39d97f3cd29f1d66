package memory

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gen2brain/go-fitz"
	"github.com/google/uuid"
	"github.com/habiliai/memorymap/errors"
	"github.com/habiliai/memorymap/internal/stringutils"
	"github.com/mokiat/gog"
)

// AddPDFMemory extracts page text from a PDF and stores each page as its
// own text memory, so search can land on the relevant page rather than
// the whole document. Returns the shared document ID.
func (s *service) AddPDFMemory(ctx context.Context, name string, input io.Reader, metadata map[string]any) (string, error) {
	pdfData, err := io.ReadAll(input)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read PDF data")
	}

	doc, err := fitz.NewFromMemory(pdfData)
	if err != nil {
		return "", errors.Wrapf(err, "failed to open PDF")
	}
	defer doc.Close()

	pdfMetadata := doc.Metadata()
	title := pdfMetadata["title"]
	if title == "" {
		title = name
	}

	documentID := uuid.NewString()
	pageCount := doc.NumPage()
	stored := 0

	now := time.Now()
	for pageNum := 0; pageNum < pageCount; pageNum++ {
		pageText, err := doc.Text(pageNum)
		if err != nil {
			return "", errors.Wrapf(err, "failed to extract text from page %d", pageNum+1)
		}

		cleaned := stringutils.NormalizeWhitespace(stringutils.Sanitize(pageText))
		if cleaned == "" {
			continue
		}

		embedding, err := s.embedDocumentText(ctx, cleaned)
		if err != nil {
			return "", errors.Wrapf(err, "failed to embed page %d", pageNum+1)
		}

		item := &Item{
			ID:      fmt.Sprintf("%s_page_%d", documentID, pageNum+1),
			Content: cleaned,
			Metadata: gog.Merge(map[string]any{
				"source":      "pdf",
				"title":       title,
				"author":      pdfMetadata["author"],
				"document_id": documentID,
				"page_number": pageNum + 1,
				"total_pages": pageCount,
			}, metadata),
			Embedding: embedding,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.textStore.Insert(ctx, item); err != nil {
			return "", errors.Wrapf(err, "failed to store page %d", pageNum+1)
		}
		stored++
	}

	if stored == 0 {
		return "", errors.Errorf("no extractable text found in PDF %s", name)
	}

	s.logger.Info("stored PDF memory", "document", documentID, "title", strings.TrimSpace(title), "pages", stored, "time", time.Since(now))
	return documentID, nil
}
