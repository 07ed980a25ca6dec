package enrich

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/yoyothesheep/ai-resilient-occupations/internal/onet"

	"go.uber.org/zap"
)

type stubFetcher struct {
	entries map[string]*onet.Enrichment
	errs    map[string]error
	calls   []string
}

func (s *stubFetcher) Fetch(_ context.Context, pageURL string) (*onet.Enrichment, error) {
	s.calls = append(s.calls, pageURL)
	if err, ok := s.errs[pageURL]; ok {
		return nil, err
	}
	return s.entries[pageURL], nil
}

func testCache(t *testing.T) *Cache {
	t.Helper()

	cache, err := LoadCache(filepath.Join(t.TempDir(), "cache.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return cache
}

func occupation(code, url string) *onet.Occupation {
	return &onet.Occupation{Code: code, Name: "Occupation " + code, URL: url}
}

func TestEnricherFetchesAndApplies(t *testing.T) {
	fetcher := &stubFetcher{
		entries: map[string]*onet.Enrichment{
			"https://example.com/a": {MedianWage: "$98,560 annual", Growth: "Average (3% to 4%)", Openings: "23,400"},
		},
	}
	cache := testCache(t)
	occs := &onet.Occupations{Items: []*onet.Occupation{occupation("11-1011.00", "https://example.com/a")}}

	enricher := NewEnricher(fetcher, cache, 0, zap.NewNop())
	if err := enricher.Run(context.Background(), occs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	occ := occs.Items[0]
	if occ.MedianWage != "$98,560 annual" {
		t.Fatalf("median wage not applied: %q", occ.MedianWage)
	}
	if occ.Growth != "Average (3% to 4%)" {
		t.Fatalf("growth not applied: %q", occ.Growth)
	}
	if occ.Openings != "23,400" {
		t.Fatalf("openings not applied: %q", occ.Openings)
	}

	if _, ok := cache.Get("11-1011.00"); !ok {
		t.Fatal("expected fetch result in cache")
	}
}

func TestEnricherSkipsCachedEntries(t *testing.T) {
	fetcher := &stubFetcher{
		entries: map[string]*onet.Enrichment{
			"https://example.com/b": {MedianWage: "$60,000 annual"},
		},
	}
	cache := testCache(t)
	if err := cache.Put("11-1011.00", &onet.Enrichment{MedianWage: "$98,560 annual"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	occs := &onet.Occupations{Items: []*onet.Occupation{
		occupation("11-1011.00", "https://example.com/a"),
		occupation("13-2011.00", "https://example.com/b"),
	}}

	enricher := NewEnricher(fetcher, cache, 0, zap.NewNop())
	if err := enricher.Run(context.Background(), occs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(fetcher.calls) != 1 || fetcher.calls[0] != "https://example.com/b" {
		t.Fatalf("expected a single fetch for the uncached record, got %v", fetcher.calls)
	}

	if got := occs.Items[0].MedianWage; got != "$98,560 annual" {
		t.Fatalf("cached value not applied: %q", got)
	}
}

func TestEnricherCachesFailuresAsEmpty(t *testing.T) {
	fetcher := &stubFetcher{
		errs: map[string]error{"https://example.com/a": errors.New("status 503")},
	}
	cache := testCache(t)
	occs := &onet.Occupations{Items: []*onet.Occupation{occupation("11-1011.00", "https://example.com/a")}}

	enricher := NewEnricher(fetcher, cache, 0, zap.NewNop())
	if err := enricher.Run(context.Background(), occs); err != nil {
		t.Fatalf("expected failures to be swallowed, got %v", err)
	}

	entry, ok := cache.Get("11-1011.00")
	if !ok {
		t.Fatal("expected failed fetch to be cached")
	}
	if entry.MedianWage != "" || entry.Growth != "" || entry.Openings != "" {
		t.Fatalf("expected empty entry, got %+v", entry)
	}

	if occs.Items[0].MedianWage != "" {
		t.Fatalf("expected record to stay empty, got %q", occs.Items[0].MedianWage)
	}
}

func TestEnricherSkipsRecordsWithoutURL(t *testing.T) {
	fetcher := &stubFetcher{}
	cache := testCache(t)
	occs := &onet.Occupations{Items: []*onet.Occupation{occupation("11-1011.00", "")}}

	enricher := NewEnricher(fetcher, cache, 0, zap.NewNop())
	if err := enricher.Run(context.Background(), occs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(fetcher.calls) != 0 {
		t.Fatalf("expected no fetches, got %v", fetcher.calls)
	}

	if cache.Len() != 0 {
		t.Fatalf("expected no cache entries, got %d", cache.Len())
	}
}

func TestEnricherStopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := &stubFetcher{}
	cache := testCache(t)
	occs := &onet.Occupations{Items: []*onet.Occupation{occupation("11-1011.00", "https://example.com/a")}}

	enricher := NewEnricher(fetcher, cache, 0, zap.NewNop())
	if err := enricher.Run(ctx, occs); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}

	if len(fetcher.calls) != 0 {
		t.Fatalf("expected no fetches after cancellation, got %v", fetcher.calls)
	}
}
