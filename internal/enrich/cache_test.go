package enrich

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yoyothesheep/ai-resilient-occupations/internal/onet"
)

func TestLoadCacheMissingFile(t *testing.T) {
	cache, err := LoadCache(filepath.Join(t.TempDir(), "cache.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cache.Len() != 0 {
		t.Fatalf("expected empty cache, got %d entries", cache.Len())
	}
}

func TestCachePutAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	cache, err := LoadCache(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	full := &onet.Enrichment{
		MedianWage: "$98,560 annual",
		Growth:     "Faster than average (5% to 8%)",
		Openings:   "23,400",
	}
	if err := cache.Put("11-1011.00", full); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cache.Put("13-2011.00", &onet.Enrichment{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reloaded, err := LoadCache(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if reloaded.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", reloaded.Len())
	}

	entry, ok := reloaded.Get("11-1011.00")
	if !ok {
		t.Fatal("expected entry for 11-1011.00")
	}
	if entry.MedianWage != full.MedianWage || entry.Growth != full.Growth || entry.Openings != full.Openings {
		t.Fatalf("entry did not round-trip: %+v", entry)
	}

	empty, ok := reloaded.Get("13-2011.00")
	if !ok {
		t.Fatal("expected empty entry to survive reload")
	}
	if empty.MedianWage != "" || empty.Growth != "" || empty.Openings != "" {
		t.Fatalf("expected empty entry, got %+v", empty)
	}
}

func TestCacheWritesAfterEveryPut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cache.json")

	cache, err := LoadCache(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := cache.Put("11-1011.00", &onet.Enrichment{MedianWage: "$50,000 annual"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	onDisk, err := LoadCache(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if onDisk.Len() != 1 {
		t.Fatalf("expected first put on disk already, got %d entries", onDisk.Len())
	}
}

func TestCacheStoresNilAsEmptyEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	cache, err := LoadCache(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := cache.Put("11-1011.00", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entry, ok := cache.Get("11-1011.00")
	if !ok || entry == nil {
		t.Fatal("expected a non-nil empty entry")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(string(data), `"11-1011.00": {}`) {
		t.Fatalf("expected empty object on disk, got %s", data)
	}
}

func TestLoadCacheRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := LoadCache(path); err == nil {
		t.Fatal("expected error for corrupt cache file")
	}
}
