package classify

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sahelwatch/sentinel-engine/internal/bus"
	"github.com/sahelwatch/sentinel-engine/pkg/models"
)

// Store is the narrow persistence surface the classifier needs. The
// queue of work is a predicate over the store, so a restart re-discovers
// in-flight articles without any extra bookkeeping.
type Store interface {
	GetUnparsedArticles(ctx context.Context, limit int) ([]models.Article, error)
	GetUncategorizedArticles(ctx context.Context, limit int) ([]models.Article, error)
	InsertParsedEvent(ctx context.Context, e models.ParsedEvent) (bool, error)
	UpdateArticleCategory(ctx context.Context, url, category string, confidence float64) error
}

// Publisher is the narrow broker surface the classifier needs.
type Publisher interface {
	Publish(subject string, v any) error
}

// Model is the external text-to-JSON contract, satisfied by LLMService.
type Model interface {
	Extract(ctx context.Context, text string) (Extraction, error)
	Categorize(ctx context.Context, text string) (string, float64, error)
}

// Processor drives the two classification passes on fixed intervals:
// extraction turns unprocessed articles into parsed events, and the
// slower categorization pass attaches conflict categories to articles
// still marked Unknown.
type Processor struct {
	store Store
	pub   Publisher
	model Model

	extractionInterval     time.Duration
	categorizationInterval time.Duration
	batchSize              int
	maxConcurrent          int
}

func NewProcessor(store Store, pub Publisher, model Model, extractionInterval, categorizationInterval time.Duration, maxConcurrent int) *Processor {
	if extractionInterval <= 0 {
		extractionInterval = 30 * time.Second
	}
	if categorizationInterval <= 0 {
		categorizationInterval = 300 * time.Second
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 5
	}
	return &Processor{
		store:                  store,
		pub:                    pub,
		model:                  model,
		extractionInterval:     extractionInterval,
		categorizationInterval: categorizationInterval,
		batchSize:              50,
		maxConcurrent:          maxConcurrent,
	}
}

// Run polls until ctx is cancelled.
func (p *Processor) Run(ctx context.Context) {
	log.Printf("[Classifier] Starting (extraction every %s, categorization every %s)",
		p.extractionInterval, p.categorizationInterval)

	extractTicker := time.NewTicker(p.extractionInterval)
	defer extractTicker.Stop()
	categorizeTicker := time.NewTicker(p.categorizationInterval)
	defer categorizeTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[Classifier] Stopping")
			return
		case <-extractTicker.C:
			p.runExtraction(ctx)
		case <-categorizeTicker.C:
			p.runCategorization(ctx)
		}
	}
}

// runExtraction processes the current batch of unparsed articles.
func (p *Processor) runExtraction(ctx context.Context) {
	articles, err := p.store.GetUnparsedArticles(ctx, p.batchSize)
	if err != nil {
		log.Printf("[Classifier] Failed to load extraction queue: %v", err)
		return
	}
	if len(articles) == 0 {
		return
	}
	log.Printf("[Classifier] Extracting events from %d articles", len(articles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.maxConcurrent)
	for _, article := range articles {
		g.Go(func() error {
			p.extractOne(gctx, article)
			return nil
		})
	}
	_ = g.Wait()
}

// extractOne runs the model (fallback: rules) over one article and
// persists the result. Articles with no extractable conflict signal are
// skipped silently.
func (p *Processor) extractOne(ctx context.Context, article models.Article) {
	event, ok := p.extractEvent(ctx, article)
	if !ok {
		log.Printf("[Classifier] Skipped (no conflict signal): %s", article.URL)
		return
	}

	inserted, err := p.store.InsertParsedEvent(ctx, event)
	if err != nil {
		log.Printf("[Classifier] Failed to persist event for %s: %v", article.URL, err)
		return
	}
	if !inserted {
		return // already parsed by a concurrent worker, idempotent
	}

	if err := p.pub.Publish(bus.SubjectParsedEvents, event); err != nil && err != bus.ErrUnavailable {
		log.Printf("[Classifier] Publish failed for %s: %v", article.URL, err)
	}
	log.Printf("[Classifier] Parsed %s event in %s/%s (%s): %s",
		event.EventType, event.State, event.LGA, event.Severity, article.URL)
}

func (p *Processor) extractEvent(ctx context.Context, article models.Article) (models.ParsedEvent, bool) {
	text := article.Title + "\n\n" + article.Content

	ext, err := p.model.Extract(ctx, text)
	if err != nil {
		if !errors.Is(err, ErrModelUnavailable) && !errors.Is(err, ErrMalformedResponse) {
			log.Printf("[Classifier] Extraction error for %s: %v", article.URL, err)
		}
		return SimpleExtract(article)
	}

	event := models.ParsedEvent{
		EventType:            strings.ToLower(strings.TrimSpace(ext.EventType)),
		State:                strings.TrimSpace(ext.State),
		LGA:                  strings.TrimSpace(ext.LGA),
		Severity:             strings.ToLower(strings.TrimSpace(ext.Severity)),
		SourceTitle:          article.Title,
		SourceURL:            article.URL,
		SentimentIntensity:   clampIntensity(ext.SentimentIntensity),
		HateSpeechIndicators: ext.HateSpeechIndicators,
		ConflictDriver:       ext.ConflictDriver,
		ParsedAt:             time.Now().UTC(),
	}
	if len(event.SourceTitle) > 200 {
		event.SourceTitle = event.SourceTitle[:200]
	}
	if event.EventType == "" || event.State == "" {
		return SimpleExtract(article)
	}

	// Model output carries no coordinates; approximate with the state
	// capital the same way the rule extractor does.
	if coords, ok := stateCoordinates[strings.ToLower(event.State)]; ok {
		lat, lng := coords.Lat, coords.Lng
		event.Latitude = &lat
		event.Longitude = &lng
	}
	return event, true
}

func clampIntensity(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// runCategorization attaches categories to articles still Unknown.
func (p *Processor) runCategorization(ctx context.Context) {
	articles, err := p.store.GetUncategorizedArticles(ctx, p.batchSize)
	if err != nil {
		log.Printf("[Classifier] Failed to load categorization queue: %v", err)
		return
	}
	if len(articles) == 0 {
		return
	}
	log.Printf("[Classifier] Categorizing %d articles", len(articles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.maxConcurrent)
	for _, article := range articles {
		g.Go(func() error {
			p.categorizeOne(gctx, article)
			return nil
		})
	}
	_ = g.Wait()
}

func (p *Processor) categorizeOne(ctx context.Context, article models.Article) {
	text := article.Title + "\n\n" + article.Content

	category, confidence, err := p.model.Categorize(ctx, text)
	if err != nil {
		category, confidence = RuleCategorize(article.Title, article.Content)
	}
	if category == models.CategoryUnknown && confidence == 0 {
		// Model answered but could not classify; fall through to the
		// keyword rules before giving up.
		category, confidence = RuleCategorize(article.Title, article.Content)
	}

	if err := p.store.UpdateArticleCategory(ctx, article.URL, category, confidence); err != nil {
		log.Printf("[Classifier] Failed to update category for %s: %v", article.URL, err)
		return
	}
	log.Printf("[Classifier] Categorized %s as %s (%.0f%%)", article.URL, category, confidence)
}
