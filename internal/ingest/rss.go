package ingest

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/sahelwatch/sentinel-engine/pkg/models"
)

// scrapeRSS parses a source's feed and normalizes each item into an
// Article. Items appear in feed order. Entries without a usable title or
// link are dropped; a missing description falls back to following the
// item link for the full body.
func (ing *Ingestor) scrapeRSS(ctx context.Context, source Source) ([]models.Article, error) {
	body, err := ing.fetcher.Get(ctx, source.RSSURL)
	if err != nil {
		return nil, fmt.Errorf("feed fetch failed: %v", err)
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("feed parse failed: %v", err)
	}

	articles := make([]models.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil || item.Link == "" {
			continue
		}

		title := strings.TrimSpace(item.Title)
		if len(title) < minTitleLength {
			continue
		}

		content := strings.TrimSpace(stripHTMLTags(item.Content))
		if content == "" {
			content = strings.TrimSpace(stripHTMLTags(item.Description))
		}
		if len(content) < minContentLength {
			// Thin feed entry: follow the link for the full article body.
			if full, err := ing.scrapeArticlePage(ctx, item.Link); err == nil && len(full) >= minContentLength {
				content = full
			}
		}
		if len(content) < minContentLength {
			continue
		}

		article := models.Article{
			Title:     title,
			Content:   content,
			Source:    source.Name,
			URL:       item.Link,
			ScrapedAt: time.Now().UTC(),
			Features:  defaultFeatures(),
		}
		if item.PublishedParsed != nil {
			t := item.PublishedParsed.UTC()
			article.PublishedAt = &t
		}
		if item.Author != nil {
			article.Author = item.Author.Name
		}
		for _, cat := range item.Categories {
			article.Tags = append(article.Tags, cat)
		}

		articles = append(articles, article)
		if len(articles) >= maxArticlesPerSource {
			break
		}
	}

	log.Printf("[Ingestor] %s (RSS): %d articles", source.Name, len(articles))
	return articles, nil
}
