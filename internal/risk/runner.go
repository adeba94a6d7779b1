package risk

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/sahelwatch/sentinel-engine/internal/bus"
	"github.com/sahelwatch/sentinel-engine/internal/ingest"
	"github.com/sahelwatch/sentinel-engine/pkg/models"
)

// SignalStore is the narrow persistence surface the runner needs.
type SignalStore interface {
	GetUnscoredEvents(ctx context.Context, limit int) ([]models.ParsedEvent, error)
	UpsertRiskSignal(ctx context.Context, sig models.RiskSignal) error
}

// Publisher is the narrow broker surface the runner needs.
type Publisher interface {
	Publish(subject string, v any) error
}

// Runner drives the engine over the unscored backlog on a fixed
// interval, and optionally over the parsed-events stream when a broker
// is connected. The poll path alone is sufficient: the queue of work is
// a predicate over the store, so nothing is lost when the broker is down.
type Runner struct {
	engine   *Engine
	store    SignalStore
	pub      Publisher
	alerts   *AlertManager
	highRisk *ingest.HighRiskLog
	onSignal func(models.RiskSignal)

	interval  time.Duration
	batchSize int
}

func NewRunner(engine *Engine, store SignalStore, pub Publisher, alerts *AlertManager, highRisk *ingest.HighRiskLog, onSignal func(models.RiskSignal)) *Runner {
	return &Runner{
		engine:    engine,
		store:     store,
		pub:       pub,
		alerts:    alerts,
		highRisk:  highRisk,
		onSignal:  onSignal,
		interval:  30 * time.Second,
		batchSize: 100,
	}
}

// Run polls until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) {
	log.Printf("[RiskEngine] Starting (scoring every %s)", r.interval)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[RiskEngine] Stopping")
			return
		case <-ticker.C:
			r.scoreBacklog(ctx)
		}
	}
}

// ConsumeEvents attaches the runner to the parsed-events stream for
// low-latency scoring between polls. Malformed messages are terminal.
func (r *Runner) ConsumeEvents(ctx context.Context, b *bus.Bus) error {
	return b.Consume(ctx, bus.SubjectParsedEvents, "risk-engine", func(data []byte) error {
		var event models.ParsedEvent
		if err := json.Unmarshal(data, &event); err != nil {
			return fmt.Errorf("%w: %v", bus.ErrPermanent, err)
		}
		r.scoreOne(ctx, event)
		return nil
	})
}

func (r *Runner) scoreBacklog(ctx context.Context) {
	events, err := r.store.GetUnscoredEvents(ctx, r.batchSize)
	if err != nil {
		log.Printf("[RiskEngine] Failed to load unscored events: %v", err)
		return
	}
	if len(events) == 0 {
		return
	}
	log.Printf("[RiskEngine] Scoring %d events", len(events))
	for _, event := range events {
		r.scoreOne(ctx, event)
	}
}

func (r *Runner) scoreOne(ctx context.Context, event models.ParsedEvent) {
	sig, err := r.engine.Score(event)
	if err != nil {
		log.Printf("[RiskEngine] Skipped %s: %v", event.SourceURL, err)
		return
	}

	if err := r.store.UpsertRiskSignal(ctx, sig); err != nil {
		log.Printf("[RiskEngine] Failed to persist signal for %s: %v", event.SourceURL, err)
		return
	}

	if r.pub != nil {
		if err := r.pub.Publish(bus.SubjectRiskSignals, sig); err != nil && err != bus.ErrUnavailable {
			log.Printf("[RiskEngine] Publish failed for %s: %v", event.SourceURL, err)
		}
	}

	if r.highRisk != nil && r.highRisk.Record(sig) {
		log.Printf("[RiskEngine] High-risk signal recorded: %.1f in %s/%s", sig.RiskScore, sig.State, sig.LGA)
	}
	if r.alerts != nil {
		r.alerts.EmitFromSignal(sig)
	}
	if r.onSignal != nil {
		r.onSignal(sig)
	}

	log.Printf("[RiskEngine] %s/%s scored %.1f (%s): %s",
		sig.State, sig.LGA, sig.RiskScore, sig.RiskLevel, sig.SourceURL)
}
