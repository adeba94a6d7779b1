package classify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/semaphore"

	"github.com/sahelwatch/sentinel-engine/pkg/models"
)

// Resilience envelope around every model call:
//
//	retry    3 attempts, exponential backoff 2s -> 10s
//	breaker  opens after 5 consecutive failures, probes after 30s
//	permits  at most maxConcurrent calls in flight
//
// When the envelope is exhausted the caller falls back to the
// deterministic rule extractor.

const (
	maxAttempts    = 3
	baseBackoff    = 2 * time.Second
	maxBackoff     = 10 * time.Second
	breakerTrips   = 5
	breakerTimeout = 30 * time.Second
)

// ErrModelUnavailable signals that the model cannot be reached right now
// (circuit open or retries exhausted on transport errors).
var ErrModelUnavailable = errors.New("model unavailable")

// ErrMalformedResponse is a permanent protocol failure: the model
// answered but not with the required JSON shape. Never retried.
var ErrMalformedResponse = errors.New("malformed model response")

// LLMConfig wires the client to any OpenAI-compatible endpoint (a local
// Ollama gateway in the default deployment).
type LLMConfig struct {
	BaseURL       string
	APIKey        string
	Model         string
	MaxConcurrent int64
	Timeout       time.Duration
}

// LLMService performs the two classification passes against the model.
type LLMService struct {
	client  *openai.Client
	model   string
	breaker *gobreaker.CircuitBreaker
	permits *semaphore.Weighted
	timeout time.Duration
}

func NewLLMService(cfg LLMConfig) *LLMService {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Model == "" {
		cfg.Model = "llama3.2"
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "llm",
		Timeout: breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerTrips
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("[Classifier] Circuit breaker %s: %s -> %s", name, from, to)
		},
	})

	return &LLMService{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		breaker: breaker,
		permits: semaphore.NewWeighted(cfg.MaxConcurrent),
		timeout: cfg.Timeout,
	}
}

// Extraction is the structured result of the extraction prompt. Every
// field must be present in the model output or the result is discarded.
type Extraction struct {
	EventType            string   `json:"Event_Type"`
	State                string   `json:"State"`
	LGA                  string   `json:"LGA"`
	Severity             string   `json:"Severity"`
	SentimentIntensity   int      `json:"Sentiment_Intensity"`
	HateSpeechIndicators []string `json:"Hate_Speech_Indicators"`
	ConflictDriver       string   `json:"Conflict_Driver"`
}

var extractionRequiredKeys = []string{
	"Event_Type", "State", "LGA", "Severity",
	"Sentiment_Intensity", "Hate_Speech_Indicators", "Conflict_Driver",
}

// Extract runs the extraction prompt over an article body.
func (s *LLMService) Extract(ctx context.Context, text string) (Extraction, error) {
	var out Extraction

	raw, err := s.complete(ctx, extractionSystemPrompt, text)
	if err != nil {
		return out, err
	}

	jsonStr, err := ExtractJSON(raw)
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	// All keys must be present; a partial extraction is discarded.
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(jsonStr), &fields); err != nil {
		return out, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	for _, key := range extractionRequiredKeys {
		if _, ok := fields[key]; !ok {
			return out, fmt.Errorf("%w: missing field %s", ErrMalformedResponse, key)
		}
	}

	if err := json.Unmarshal([]byte(jsonStr), &out); err != nil {
		return out, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return out, nil
}

// Categorize runs the categorization prompt. Out-of-range values are
// clamped to Unknown / 0 rather than rejected.
func (s *LLMService) Categorize(ctx context.Context, text string) (string, float64, error) {
	raw, err := s.complete(ctx, categorizationSystemPrompt, text)
	if err != nil {
		return "", 0, err
	}

	jsonStr, err := ExtractJSON(raw)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	var result struct {
		Category   string          `json:"category"`
		Confidence json.Number     `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	category := result.Category
	if !models.ValidCategories[category] {
		log.Printf("[Classifier] Invalid category %q, defaulting to Unknown", category)
		category = models.CategoryUnknown
	}

	confidence, err := result.Confidence.Float64()
	if err != nil || confidence < 0 || confidence > 100 {
		log.Printf("[Classifier] Confidence out of range (%v), defaulting to 0", result.Confidence)
		confidence = 0
	}
	return category, confidence, nil
}

// complete issues one chat completion inside the full resilience
// envelope. Transport failures retry with backoff and count toward the
// breaker; protocol failures surface immediately.
func (s *LLMService) complete(ctx context.Context, system, user string) (string, error) {
	if err := s.permits.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer s.permits.Release(1)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			backoff := baseBackoff * time.Duration(1<<(attempt-2))
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		result, err := s.breaker.Execute(func() (any, error) {
			callCtx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()

			resp, err := s.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
				Model:       s.model,
				Temperature: 0.1,
				Messages: []openai.ChatCompletionMessage{
					{Role: openai.ChatMessageRoleSystem, Content: system},
					{Role: openai.ChatMessageRoleUser, Content: user},
				},
			})
			if err != nil {
				return nil, err
			}
			if len(resp.Choices) == 0 {
				return nil, fmt.Errorf("no completion choices returned")
			}
			return resp.Choices[0].Message.Content, nil
		})
		if err == nil {
			return result.(string), nil
		}

		lastErr = err
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", fmt.Errorf("%w: circuit open", ErrModelUnavailable)
		}
		log.Printf("[Classifier] Model call attempt %d/%d failed: %v", attempt, maxAttempts, err)
	}

	return "", fmt.Errorf("%w: %v", ErrModelUnavailable, lastErr)
}
