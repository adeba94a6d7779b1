package ingest

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sahelwatch/sentinel-engine/internal/bus"
	"github.com/sahelwatch/sentinel-engine/pkg/models"
)

// ArticleStore is the narrow persistence surface the ingestor needs.
type ArticleStore interface {
	InsertArticle(ctx context.Context, a models.Article) (bool, error)
}

// Publisher is the narrow broker surface the ingestor needs.
type Publisher interface {
	Publish(subject string, v any) error
}

// CycleResult summarizes one scrape cycle for the audit log and the
// manual-trigger endpoint.
type CycleResult struct {
	Status            string   `json:"status"` // success / partial / warning / error
	Message           string   `json:"message"`
	TotalScraped      int      `json:"total_scraped"`
	NewArticles       int      `json:"new_articles"`
	Duplicates        int      `json:"duplicates"`
	SuccessfulSources []string `json:"successful_sources"`
	FailedSources     []string `json:"failed_sources"`
}

// Ingestor runs the multi-source scrape cycle: parallel fetch, content
// dedup, persist, publish. One cycle runs at a time; an overlapping
// trigger is skipped rather than queued.
type Ingestor struct {
	sources []Source
	fetcher *Fetcher
	store   ArticleStore
	pub     Publisher
	audit   *AuditLog

	isRunning atomic.Bool
}

func NewIngestor(sources []Source, fetcher *Fetcher, store ArticleStore, pub Publisher, audit *AuditLog) *Ingestor {
	return &Ingestor{
		sources: sources,
		fetcher: fetcher,
		store:   store,
		pub:     pub,
		audit:   audit,
	}
}

// Running reports whether a cycle is currently in flight.
func (ing *Ingestor) Running() bool {
	return ing.isRunning.Load()
}

// RunCycle executes one full scrape cycle. Per-source failures are
// isolated: one broken outlet never aborts the cycle.
func (ing *Ingestor) RunCycle(ctx context.Context) CycleResult {
	if !ing.isRunning.CompareAndSwap(false, true) {
		return CycleResult{
			Status:  "warning",
			Message: "Scrape cycle already running, tick skipped",
		}
	}
	defer ing.isRunning.Store(false)

	start := time.Now()
	log.Printf("[Ingestor] Starting scrape cycle across %d sources", len(ing.sources))

	if len(ing.sources) == 0 {
		result := CycleResult{
			Status:            "warning",
			Message:           "No sources configured, 0 articles scraped",
			SuccessfulSources: []string{},
			FailedSources:     []string{},
		}
		ing.audit.Append("scrape_cycle", result.Status, result.Message)
		return result
	}

	var (
		mu         sync.Mutex
		collected  []models.Article
		successful []string
		failed     []string
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, source := range ing.sources {
		g.Go(func() error {
			articles, err := ing.scrapeSource(gctx, source)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Printf("[Ingestor] ✗ %s: %v", source.Name, err)
				failed = append(failed, source.Name)
				return nil // source failures are warnings, never cycle aborts
			}
			if len(articles) == 0 {
				log.Printf("[Ingestor] ✗ %s: no articles scraped", source.Name)
				failed = append(failed, source.Name)
				return nil
			}
			collected = append(collected, articles...)
			successful = append(successful, source.Name)
			return nil
		})
	}
	_ = g.Wait()

	deduped := Deduplicate(collected)
	result := CycleResult{
		TotalScraped:      len(collected),
		Duplicates:        len(collected) - len(deduped),
		SuccessfulSources: successful,
		FailedSources:     failed,
	}
	if successful == nil {
		result.SuccessfulSources = []string{}
	}
	if failed == nil {
		result.FailedSources = []string{}
	}

	writeFailures := 0
	for _, article := range deduped {
		inserted, err := ing.store.InsertArticle(ctx, article)
		if err != nil {
			writeFailures++
			log.Printf("[Ingestor] Store write failed for %s: %v", article.URL, err)
			continue
		}
		if inserted {
			result.NewArticles++
		}

		if err := ing.pub.Publish(bus.SubjectScrapedArticles, article); err != nil {
			if err == bus.ErrUnavailable {
				continue // demo mode, classifier polls the store instead
			}
			writeFailures++
			log.Printf("[Ingestor] Publish failed for %s: %v", article.URL, err)
		}
	}

	switch {
	case len(collected) == 0:
		result.Status = "warning"
		result.Message = "All news sources failed to return articles"
	case writeFailures > 0:
		result.Status = "partial"
		result.Message = fmt.Sprintf("%d articles ingested with %d store/broker failures", len(deduped), writeFailures)
	case len(failed) > 0:
		result.Status = "partial"
		result.Message = fmt.Sprintf("%d articles from %d sources (failed: %s)",
			len(deduped), len(successful), strings.Join(failed, ", "))
	default:
		result.Status = "success"
		result.Message = fmt.Sprintf("%d articles ingested (%d new) in %s",
			len(deduped), result.NewArticles, time.Since(start).Round(time.Millisecond))
	}

	ing.audit.Append("scrape_cycle", result.Status, result.Message)
	log.Printf("[Ingestor] Cycle complete: %s", result.Message)
	return result
}

// scrapeSource dispatches on the source variant: feed-first, web
// fallback.
func (ing *Ingestor) scrapeSource(ctx context.Context, source Source) ([]models.Article, error) {
	if source.Type == SourceTypeRSS && source.RSSURL != "" {
		articles, err := ing.scrapeRSS(ctx, source)
		if err == nil && len(articles) > 0 {
			return articles, nil
		}
		if source.WebURL == "" {
			return articles, err
		}
		log.Printf("[Ingestor] %s: feed failed (%v), falling back to web scrape", source.Name, err)
	}
	return ing.scrapeWeb(ctx, source)
}
