package ingest

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"
)

// DefaultCronSpec fires the scrape cycle every 15 minutes.
const DefaultCronSpec = "*/15 * * * *"

// Scheduler drives the ingestor on a fixed cron. SkipIfStillRunning
// enforces max one concurrent cycle: a tick firing while the previous
// cycle is in flight is dropped, never queued.
type Scheduler struct {
	cron     *cron.Cron
	ingestor *Ingestor
}

func NewScheduler(ingestor *Ingestor, spec string) (*Scheduler, error) {
	if spec == "" {
		spec = DefaultCronSpec
	}

	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DiscardLogger),
		cron.Recover(cron.DefaultLogger),
	))

	s := &Scheduler{cron: c, ingestor: ingestor}
	if _, err := c.AddFunc(spec, func() {
		result := ingestor.RunCycle(context.Background())
		if result.Status == "error" {
			log.Printf("[Scheduler] Cycle failed: %s", result.Message)
		}
	}); err != nil {
		return nil, err
	}

	log.Printf("[Scheduler] Scrape cycle registered (%s)", spec)
	return s, nil
}

// Start begins firing ticks in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts new ticks and waits for a running cycle to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("[Scheduler] Stopped")
}
