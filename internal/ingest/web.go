package ingest

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sahelwatch/sentinel-engine/pkg/models"
)

const (
	minTitleLength       = 10
	minContentLength     = 50
	maxArticlesPerSource = 10
)

// Fixed priority lists for article page extraction. The first matching
// container wins; when no content container matches, the fallback is the
// concatenation of every <p> on the page.
var (
	titleSelectors   = []string{"h1", ".entry-title", ".post-title", ".article-title", "title"}
	contentSelectors = []string{".entry-content", ".post-content", ".article-content", ".story-content", "article"}
)

// scrapeWeb walks the source's index page with its selector list, follows
// each article link, and extracts title + content.
func (ing *Ingestor) scrapeWeb(ctx context.Context, source Source) ([]models.Article, error) {
	if source.WebURL == "" {
		return nil, fmt.Errorf("no web URL configured")
	}

	body, err := ing.fetcher.Get(ctx, source.WebURL)
	if err != nil {
		return nil, fmt.Errorf("index fetch failed: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("index parse failed: %v", err)
	}

	links := collectArticleLinks(doc, source)
	if len(links) == 0 {
		return nil, fmt.Errorf("no article links matched any selector")
	}

	articles := make([]models.Article, 0, len(links))
	for _, link := range links {
		title, content, err := ing.scrapeArticle(ctx, link.href)
		if err != nil {
			log.Printf("[Ingestor] %s: skipping %s: %v", source.Name, link.href, err)
			continue
		}
		if title == "" {
			title = link.text
		}
		if len(title) < minTitleLength || len(content) < minContentLength {
			continue
		}

		articles = append(articles, models.Article{
			Title:     title,
			Content:   content,
			Source:    source.Name,
			URL:       link.href,
			ScrapedAt: time.Now().UTC(),
			Features:  defaultFeatures(),
		})
	}

	log.Printf("[Ingestor] %s (Web): %d articles", source.Name, len(articles))
	return articles, nil
}

type articleLink struct {
	href string
	text string
}

// collectArticleLinks tries each selector in order and stops at the
// first one that yields links. Only absolute http(s) links and
// root-relative links survive; root-relative links are resolved against
// the index origin.
func collectArticleLinks(doc *goquery.Document, source Source) []articleLink {
	base, err := url.Parse(source.WebURL)
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var links []articleLink

	for _, selector := range source.Selectors {
		doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			node := sel
			if !sel.Is("a") {
				node = sel.Find("a[href]").First()
			}
			href, ok := node.Attr("href")
			if !ok {
				return true
			}

			full, ok := resolveLink(base, href)
			if !ok || seen[full] {
				return true
			}
			seen[full] = true

			links = append(links, articleLink{
				href: full,
				text: strings.TrimSpace(node.Text()),
			})
			return len(links) < maxArticlesPerSource
		})

		if len(links) > 0 {
			break
		}
	}
	return links
}

// resolveLink accepts absolute http(s) URLs and root-relative paths and
// rejects everything else (javascript:, mailto:, bare fragments).
func resolveLink(base *url.URL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	switch {
	case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
		return href, true
	case strings.HasPrefix(href, "/") && !strings.HasPrefix(href, "//"):
		return base.Scheme + "://" + base.Host + href, true
	default:
		return "", false
	}
}

// scrapeArticle fetches one article page and pulls out title + content
// using the fixed selector priority lists.
func (ing *Ingestor) scrapeArticle(ctx context.Context, pageURL string) (string, string, error) {
	body, err := ing.fetcher.Get(ctx, pageURL)
	if err != nil {
		return "", "", err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", "", err
	}

	var title string
	for _, selector := range titleSelectors {
		if text := strings.TrimSpace(doc.Find(selector).First().Text()); text != "" {
			title = text
			break
		}
	}

	return title, extractContent(doc), nil
}

// scrapeArticlePage returns only the content body, for RSS items whose
// feed entry was too thin to keep.
func (ing *Ingestor) scrapeArticlePage(ctx context.Context, pageURL string) (string, error) {
	_, content, err := ing.scrapeArticle(ctx, pageURL)
	return content, err
}

func extractContent(doc *goquery.Document) string {
	for _, selector := range contentSelectors {
		container := doc.Find(selector).First()
		if container.Length() == 0 {
			continue
		}
		if text := joinParagraphs(container); text != "" {
			return text
		}
	}
	// No container matched: concatenate every <p> on the page.
	return joinParagraphs(doc.Selection)
}

func joinParagraphs(sel *goquery.Selection) string {
	var parts []string
	sel.Find("p").Each(func(_ int, p *goquery.Selection) {
		if text := strings.TrimSpace(p.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	return strings.Join(parts, "\n\n")
}

// stripHTMLTags flattens feed-embedded HTML into plain text.
func stripHTMLTags(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return doc.Text()
}

// defaultFeatures is the annotation every freshly ingested article
// starts with: uncategorized, awaiting the classification passes.
func defaultFeatures() models.Features {
	return models.Features{
		ConflictType: models.CategoryUnknown,
		Confidence:   0,
	}
}
