package onet

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadCatalogWithoutEnrichmentColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.csv")
	content := "Job Zone,Code,Occupation,Data-level,url\n" +
		"3,29-1141.00,Registered Nurses,Y,https://example.com/29-1141.00\n" +
		"n/a,11-9999.00,Managers All Other,N,https://example.com/11-9999.00\n"

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	occs, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if occs.Len() != 2 {
		t.Fatalf("expected 2 occupations, got %d", occs.Len())
	}

	first := occs.Items[0]
	if first.Code != "29-1141.00" || first.Name != "Registered Nurses" {
		t.Fatalf("unexpected first occupation: %+v", first)
	}

	if first.MedianWage != "" || first.Growth != "" || first.Openings != "" {
		t.Fatalf("expected empty enrichment fields, got %+v", first)
	}
}

func TestLoadCatalogRequiresCodeColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.csv")
	content := "Job Zone,Occupation\n3,Registered Nurses\n"

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	_, err := LoadCatalog(path)
	if err == nil {
		t.Fatal("expected error for missing Code column")
	}

	if !strings.Contains(err.Error(), "Code") {
		t.Fatalf("expected error to name the missing column, got: %v", err)
	}
}

func TestWriteCatalogRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.csv")

	occs := &Occupations{Items: []*Occupation{
		{
			JobZone:    "3",
			Code:       "29-1141.00",
			Name:       "Registered Nurses",
			DataLevel:  "Y",
			URL:        "https://example.com/29-1141.00",
			MedianWage: "$93,600 annual",
			Growth:     "Faster than average (5% to 6%)",
			Openings:   "194,500",
		},
	}}

	if err := occs.WriteCatalog(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if loaded.Len() != 1 {
		t.Fatalf("expected 1 occupation, got %d", loaded.Len())
	}

	got := loaded.Items[0]
	if got.MedianWage != "$93,600 annual" {
		t.Fatalf("unexpected wage: %q", got.MedianWage)
	}
	if got.Growth != "Faster than average (5% to 6%)" {
		t.Fatalf("unexpected growth: %q", got.Growth)
	}
	if got.Openings != "194,500" {
		t.Fatalf("unexpected openings: %q", got.Openings)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading written file: %v", err)
	}

	headerLine := strings.SplitN(string(data), "\n", 2)[0]
	if headerLine != "Job Zone,Code,Occupation,Data-level,url,Median Wage,Projected Growth,Projected Job Openings" {
		t.Fatalf("unexpected header: %q", headerLine)
	}
}
