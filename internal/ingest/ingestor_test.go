package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sahelwatch/sentinel-engine/pkg/models"
)

type stubStore struct {
	inserted []models.Article
	seen     map[string]bool
}

func (s *stubStore) InsertArticle(_ context.Context, a models.Article) (bool, error) {
	if s.seen == nil {
		s.seen = make(map[string]bool)
	}
	if s.seen[a.URL] {
		return false, nil
	}
	s.seen[a.URL] = true
	s.inserted = append(s.inserted, a)
	return true, nil
}

type stubPublisher struct {
	published []string
}

func (p *stubPublisher) Publish(subject string, _ any) error {
	p.published = append(p.published, subject)
	return nil
}

const testFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>Test Wire</title>
<item>
<title>Bandits attack village in Zamfara, several killed</title>
<link>https://testwire.example/zamfara-attack</link>
<description>Armed bandits stormed a village in Anka local government area overnight, killing several residents and carting away livestock.</description>
</item>
<item>
<title>Short</title>
<link>https://testwire.example/too-short</link>
<description>Too thin to keep around for analysis at all.</description>
</item>
</channel>
</rss>`

func TestRunCycleNoSources(t *testing.T) {
	audit := NewAuditLog()
	ing := NewIngestor(nil, NewFetcher(2, time.Second), &stubStore{}, &stubPublisher{}, audit)

	result := ing.RunCycle(context.Background())
	if result.Status != "warning" {
		t.Errorf("status = %q, want warning", result.Status)
	}

	entries := audit.Entries()
	if len(entries) != 1 || entries[0].Status != "warning" {
		t.Errorf("audit entries = %+v, want one warning entry", entries)
	}
}

func TestRunCycleRSS(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(testFeed))
	}))
	defer server.Close()

	store := &stubStore{}
	pub := &stubPublisher{}
	sources := []Source{{Name: "Test Wire", RSSURL: server.URL, Type: SourceTypeRSS}}
	ing := NewIngestor(sources, NewFetcher(2, 5*time.Second), store, pub, NewAuditLog())

	result := ing.RunCycle(context.Background())
	if result.Status != "success" {
		t.Fatalf("status = %q (%s), want success", result.Status, result.Message)
	}
	// The short-titled item is dropped during normalization.
	if result.TotalScraped != 1 || result.NewArticles != 1 {
		t.Errorf("scraped/new = %d/%d, want 1/1", result.TotalScraped, result.NewArticles)
	}
	if len(store.inserted) != 1 {
		t.Fatalf("inserted = %d articles, want 1", len(store.inserted))
	}

	article := store.inserted[0]
	if article.Source != "Test Wire" {
		t.Errorf("source = %q, want Test Wire", article.Source)
	}
	if article.Fingerprint == "" {
		t.Error("article should carry a content fingerprint")
	}
	if article.SourceCount != 1 {
		t.Errorf("source count = %d, want 1", article.SourceCount)
	}
	if len(pub.published) != 1 {
		t.Errorf("published %d messages, want 1", len(pub.published))
	}
}

func TestRunCycleFailedSourceIsPartial(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testFeed))
	}))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer bad.Close()

	sources := []Source{
		{Name: "Good Wire", RSSURL: good.URL, Type: SourceTypeRSS},
		{Name: "Bad Wire", RSSURL: bad.URL, Type: SourceTypeRSS},
	}
	ing := NewIngestor(sources, NewFetcher(2, 5*time.Second), &stubStore{}, &stubPublisher{}, NewAuditLog())

	result := ing.RunCycle(context.Background())
	if result.Status != "partial" {
		t.Errorf("status = %q (%s), want partial", result.Status, result.Message)
	}
	if len(result.FailedSources) != 1 || result.FailedSources[0] != "Bad Wire" {
		t.Errorf("failed sources = %v, want [Bad Wire]", result.FailedSources)
	}
	if len(result.SuccessfulSources) != 1 {
		t.Errorf("successful sources = %v, want [Good Wire]", result.SuccessfulSources)
	}
}
