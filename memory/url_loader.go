package memory

import (
	"context"
	"fmt"
	"time"

	firecrawl "github.com/mendableai/firecrawl-go"
	"github.com/mokiat/gog"
	"github.com/pkg/errors"
)

// AddURLMemory scrapes a web page with FireCrawl and stores its markdown
// content as a text memory. Saving the same URL again replaces the
// previous memory because the ID is derived from the URL.
func (s *service) AddURLMemory(ctx context.Context, inputUrl string) (string, error) {
	if s.firecrawlConfig == nil {
		return "", errors.New("firecrawl config is not available - check FireCrawl configuration")
	}
	if err := s.firecrawlConfig.Validate(); err != nil {
		return "", errors.Wrap(err, "FireCrawl configuration is invalid - check FIRECRAWL_API_KEY environment variable")
	}

	client, err := firecrawl.NewFirecrawlApp(s.firecrawlConfig.APIKey, s.firecrawlConfig.APIUrl)
	if err != nil {
		return "", errors.Wrapf(err, "failed to create FireCrawl client")
	}

	crawlParams := firecrawl.CrawlParams{
		MaxDepth: gog.PtrOf(0),
		Limit:    gog.PtrOf(1),
	}

	s.logger.Info("scraping page", "url", inputUrl)
	startTime := time.Now()

	crawlResult, err := client.CrawlURL(inputUrl, &crawlParams, nil)
	if err != nil {
		return "", errors.Wrapf(err, "failed to crawl URL: %s", inputUrl)
	}
	if crawlResult.Status == "failed" || len(crawlResult.Data) == 0 {
		return "", errors.Errorf("no content retrieved from URL: %s", inputUrl)
	}

	page := crawlResult.Data[0]
	content := page.Markdown
	if content == "" {
		content = page.HTML
	}
	if content == "" {
		return "", errors.Errorf("no content found at URL: %s", inputUrl)
	}

	pageTitle := ""
	if page.Metadata != nil && page.Metadata.Title != nil {
		pageTitle = *page.Metadata.Title
	}
	if pageTitle != "" {
		content = fmt.Sprintf("[Page: %s]\n%s", pageTitle, content)
	}

	embedding, err := s.embedDocumentText(ctx, content)
	if err != nil {
		return "", err
	}

	id := contentID(inputUrl)
	item := &Item{
		ID:      id,
		Content: content,
		Metadata: map[string]any{
			"source":     "url",
			"url":        inputUrl,
			"title":      pageTitle,
			"scraped_at": time.Now().UTC().Format(time.RFC3339),
		},
		Embedding: embedding,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.textStore.Insert(ctx, item); err != nil {
		return "", errors.Wrapf(err, "failed to store URL memory")
	}

	s.logger.Info("stored URL memory", "url", inputUrl, "duration", time.Since(startTime))
	return id, nil
}
