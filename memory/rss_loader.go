package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/habiliai/memorymap/internal/stringutils"
	"github.com/mmcdole/gofeed"
	"github.com/pkg/errors"
)

// ImportFeed reads an RSS/Atom feed and stores each entry as a dated text
// memory. Entry publish times become the memory timestamps, so imported
// feeds slot straight into date-scoped search and synthesis. Returns the
// number of entries stored.
func (s *service) ImportFeed(ctx context.Context, feedURL string, limit int) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	feed, err := gofeed.NewParser().ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to parse feed: %s", feedURL)
	}

	items := feed.Items
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	stored := 0
	for _, entry := range items {
		content := stringutils.NormalizeWhitespace(stringutils.Sanitize(
			fmt.Sprintf("%s. %s", entry.Title, entry.Description),
		))
		if content == "" {
			continue
		}

		embedding, err := s.embedDocumentText(ctx, content)
		if err != nil {
			return stored, errors.Wrapf(err, "failed to embed feed entry %q", entry.Title)
		}

		metadata := map[string]any{
			"source":     "rss",
			"feed_title": feed.Title,
			"feed_url":   feedURL,
			"link":       entry.Link,
			"title":      entry.Title,
		}
		if entry.PublishedParsed != nil {
			metadata["date"] = entry.PublishedParsed.UTC().Format(time.RFC3339)
		}
		if entry.Author != nil && entry.Author.Name != "" {
			metadata["author"] = entry.Author.Name
		}

		item := &Item{
			ID:        contentID(entry.Link + entry.Title),
			Content:   content,
			Metadata:  metadata,
			Embedding: embedding,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.textStore.Insert(ctx, item); err != nil {
			return stored, errors.Wrapf(err, "failed to store feed entry %q", entry.Title)
		}
		stored++
	}

	s.logger.Info("imported feed", "url", feedURL, "entries", stored)
	return stored, nil
}
