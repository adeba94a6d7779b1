package models

import "time"

// ParsedEvent is a structured extraction from an Article. Events are
// append-only; source_url ties the event back to its article and serves
// as the identity for the downstream risk signal.
type ParsedEvent struct {
	EventType            string    `json:"event_type"`
	State                string    `json:"state"`
	LGA                  string    `json:"lga"`
	Severity             string    `json:"severity"`
	SourceTitle          string    `json:"source_title"`
	SourceURL            string    `json:"source_url"`
	Latitude             *float64  `json:"latitude,omitempty"`
	Longitude            *float64  `json:"longitude,omitempty"`
	SentimentIntensity   int       `json:"sentiment_intensity"`
	HateSpeechIndicators []string  `json:"hate_speech_indicators,omitempty"`
	ConflictDriver       string    `json:"conflict_driver,omitempty"`
	ParsedAt             time.Time `json:"parsed_at"`
}

// HasCoordinates reports whether the event carries a usable point.
func (e *ParsedEvent) HasCoordinates() bool {
	return e.Latitude != nil && e.Longitude != nil
}
