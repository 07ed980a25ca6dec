// Package enrich adds scraped labor-market values to occupation records,
// backed by an on-disk cache so interrupted runs never refetch a page.
package enrich

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/yoyothesheep/ai-resilient-occupations/internal/onet"
)

// Cache is a JSON file mapping occupation codes to their fetched enrichment
// values. Failed fetches are stored as empty entries so they are not retried.
type Cache struct {
	path    string
	entries map[string]*onet.Enrichment
}

// LoadCache reads the cache file at path. A missing file yields an empty
// cache.
func LoadCache(path string) (*Cache, error) {
	cache := &Cache{
		path:    path,
		entries: make(map[string]*onet.Enrichment),
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cache, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read enrichment cache %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &cache.entries); err != nil {
		return nil, fmt.Errorf("parse enrichment cache %s: %w", path, err)
	}

	return cache, nil
}

// Get returns the cached entry for the code, if any.
func (c *Cache) Get(code string) (*onet.Enrichment, bool) {
	entry, ok := c.entries[code]
	return entry, ok
}

func (c *Cache) Len() int {
	return len(c.entries)
}

// Put stores the entry and writes the whole cache to disk, so progress
// survives an interrupted run.
func (c *Cache) Put(code string, entry *onet.Enrichment) error {
	if entry == nil {
		entry = &onet.Enrichment{}
	}
	c.entries[code] = entry

	return c.save()
}

func (c *Cache) save() error {
	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create cache directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode enrichment cache: %w", err)
	}

	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("write enrichment cache %s: %w", c.path, err)
	}

	return nil
}
