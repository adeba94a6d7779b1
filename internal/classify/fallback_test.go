package classify

import (
	"strings"
	"testing"

	"github.com/sahelwatch/sentinel-engine/pkg/models"
)

func article(title, content string) models.Article {
	return models.Article{Title: title, Content: content, URL: "https://example.com/a"}
}

func TestSimpleExtractRejectsShortArticles(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		content string
	}{
		{"short title", "Clash", strings.Repeat("violence in the north ", 10)},
		{"short content", "Clash erupts in Zamfara state", "too short"},
		{"no conflict signal", "Governor commissions new road project", strings.Repeat("The road will ease traffic in the capital city. ", 5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := SimpleExtract(article(tt.title, tt.content)); ok {
				t.Error("expected article to be rejected")
			}
		})
	}
}

func TestSimpleExtractEventTypePrecedence(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    string
	}{
		{"clash wins over violence", "Deadly clash leaves several killed in the violence", "clash"},
		{"protest", "Thousands join protest march over fuel subsidy removal", "protest"},
		{"kidnapping", "Gunmen kidnap schoolchildren and demand ransom payment", "kidnapping"},
		{"terrorism", "Boko Haram insurgents overrun military base", "terrorism"},
		{"communal", "Ethnic tension boils over in farming communities", "communal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := tt.text + " " + strings.Repeat("Details are still emerging from the area. ", 3)
			event, ok := SimpleExtract(article("Report: "+tt.text, content))
			if !ok {
				t.Fatal("article unexpectedly rejected")
			}
			if event.EventType != tt.want {
				t.Errorf("event type = %q, want %q", event.EventType, tt.want)
			}
		})
	}
}

func TestSimpleExtractSeverityTiers(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Five killed as gunmen storm village", "critical"},
		{"Dozens injured in market attack", "high"},
		{"Youths protest against local council", "medium"},
		{"Communal dispute simmers between districts", "low"},
	}
	for _, tt := range tests {
		content := tt.text + " " + strings.Repeat("Security agencies have been deployed to the area. ", 3)
		event, ok := SimpleExtract(article(tt.text+" today", content))
		if !ok {
			t.Fatalf("article unexpectedly rejected: %s", tt.text)
		}
		if event.Severity != tt.want {
			t.Errorf("%q: severity = %q, want %q", tt.text, event.Severity, tt.want)
		}
	}
}

func TestSimpleExtractGeography(t *testing.T) {
	content := "A violent clash broke out in Maiduguri between armed groups. " +
		strings.Repeat("Residents fled the area as security forces responded. ", 3)
	event, ok := SimpleExtract(article("Clash in Borno as fighting erupts in Maiduguri", content))
	if !ok {
		t.Fatal("article unexpectedly rejected")
	}

	if event.State != "Borno" {
		t.Errorf("state = %q, want Borno", event.State)
	}
	if event.LGA != "Maiduguri" {
		t.Errorf("lga = %q, want Maiduguri", event.LGA)
	}
	if event.Latitude == nil || event.Longitude == nil {
		t.Fatal("expected state-capital coordinates")
	}
	if *event.Latitude != 11.8333 || *event.Longitude != 13.1500 {
		t.Errorf("coords = (%v, %v), want Borno capital", *event.Latitude, *event.Longitude)
	}
}

func TestSimpleExtractDefaults(t *testing.T) {
	content := "A violent clash broke out between two groups yesterday evening. " +
		strings.Repeat("Police are investigating the incident. ", 3)
	event, ok := SimpleExtract(article("Clash erupts between rival groups", content))
	if !ok {
		t.Fatal("article unexpectedly rejected")
	}

	if event.State != "Nigeria" {
		t.Errorf("state = %q, want Nigeria (no state named)", event.State)
	}
	if event.LGA != "Nigeria Central" {
		t.Errorf("lga = %q, want Nigeria Central", event.LGA)
	}
	// Unlocatable events fall back to the FCT coordinates.
	if event.Latitude == nil || *event.Latitude != 9.0765 {
		t.Error("expected Abuja fallback coordinates")
	}
}

func TestSimpleExtractTruncatesTitle(t *testing.T) {
	title := "Clash reported as " + strings.Repeat("violence spreads across the region ", 10)
	content := strings.Repeat("Armed men attacked several settlements overnight. ", 3)
	event, ok := SimpleExtract(article(title, content))
	if !ok {
		t.Fatal("article unexpectedly rejected")
	}
	if len(event.SourceTitle) > 200 {
		t.Errorf("source title length = %d, want <= 200", len(event.SourceTitle))
	}
}
