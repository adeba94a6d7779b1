package bus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"
)

// Pipeline subjects. Each stage publishes what it produced and the next
// stage consumes it. Streams are file-backed so messages survive broker
// restarts (at-least-once, manual ack).
const (
	SubjectScrapedArticles = "scraped_articles"
	SubjectParsedEvents    = "parsed_events"
	SubjectRiskSignals     = "risk_signals"
)

// ErrPermanent marks a message that can never be processed (malformed
// payload). The consumer terminates it instead of requeueing.
var ErrPermanent = errors.New("permanent processing failure")

// ErrUnavailable is returned by Publish when the broker is down and the
// engine is running in demo mode.
var ErrUnavailable = errors.New("message broker unavailable")

// Bus wraps a JetStream connection. A nil or disconnected Bus degrades
// to demo mode: publishes report ErrUnavailable, consumers never start,
// and the rest of the pipeline keeps working off the store.
type Bus struct {
	nc        *nats.Conn
	js        nats.JetStreamContext
	connected bool
}

// Connect dials the broker and provisions the three pipeline streams.
func Connect(url string) (*Bus, error) {
	nc, err := nats.Connect(url,
		nats.Name("sentinel-engine"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect failed: %v", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream init failed: %v", err)
	}

	b := &Bus{nc: nc, js: js, connected: true}
	if err := b.ensureStreams(); err != nil {
		nc.Close()
		return nil, err
	}

	log.Println("[Bus] Connected to NATS, pipeline streams ready")
	return b, nil
}

// Disconnected returns a demo-mode bus for when the broker is not
// reachable at startup.
func Disconnected() *Bus {
	return &Bus{connected: false}
}

func (b *Bus) ensureStreams() error {
	for _, subject := range []string{SubjectScrapedArticles, SubjectParsedEvents, SubjectRiskSignals} {
		_, err := b.js.AddStream(&nats.StreamConfig{
			Name:      subject,
			Subjects:  []string{subject},
			Storage:   nats.FileStorage,
			Retention: nats.WorkQueuePolicy,
		})
		if err != nil && !errors.Is(err, nats.ErrStreamNameAlreadyInUse) {
			return fmt.Errorf("failed to provision stream %s: %v", subject, err)
		}
	}
	return nil
}

// Connected reports whether the broker link is live.
func (b *Bus) Connected() bool {
	return b != nil && b.connected && b.nc != nil && b.nc.IsConnected()
}

// Close drains the connection, letting in-flight acks complete.
func (b *Bus) Close() {
	if b != nil && b.nc != nil {
		_ = b.nc.Drain()
	}
}

// Publish sends a JSON-encoded record with persistent delivery.
func (b *Bus) Publish(subject string, v any) error {
	if !b.Connected() {
		return ErrUnavailable
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %v", subject, err)
	}
	if _, err := b.js.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish to %s: %v", subject, err)
	}
	return nil
}

// Consume runs a durable pull consumer until ctx is cancelled. Handler
// outcome drives the ack: nil acks, ErrPermanent terminates without
// requeue, anything else naks for redelivery.
func (b *Bus) Consume(ctx context.Context, subject, durable string, handler func([]byte) error) error {
	if !b.Connected() {
		return ErrUnavailable
	}

	sub, err := b.js.PullSubscribe(subject, durable, nats.AckExplicit())
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %v", subject, err)
	}

	go func() {
		defer func() { _ = sub.Unsubscribe() }()
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			msgs, err := sub.Fetch(1, nats.MaxWait(5*time.Second))
			if err != nil {
				if errors.Is(err, nats.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
					continue // empty queue
				}
				if ctx.Err() != nil {
					return
				}
				log.Printf("[Bus] Fetch error on %s: %v", subject, err)
				time.Sleep(2 * time.Second)
				continue
			}

			for _, msg := range msgs {
				switch err := handler(msg.Data); {
				case err == nil:
					_ = msg.Ack()
				case errors.Is(err, ErrPermanent):
					log.Printf("[Bus] Terminating poison message on %s: %v", subject, err)
					_ = msg.Term()
				default:
					log.Printf("[Bus] Handler error on %s, requeueing: %v", subject, err)
					_ = msg.Nak()
				}
			}
		}
	}()

	log.Printf("[Bus] Consumer %s attached to %s", durable, subject)
	return nil
}
