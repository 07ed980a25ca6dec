package onet

import (
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Enrichment holds the three labor-market values scraped from a summary page.
// The JSON tags define the on-disk fetch cache format; a failed fetch is
// cached as an empty object.
type Enrichment struct {
	MedianWage string `json:"median_wage,omitempty"`
	Growth     string `json:"projected_growth,omitempty"`
	Openings   string `json:"projected_job_openings,omitempty"`
}

const (
	labelWages    = "Median wages"
	labelGrowth   = "Projected growth"
	labelOpenings = "Projected job openings"
)

var whitespace = regexp.MustCompile(`\s+`)

// ParseSummary extracts the wage, growth and openings values from an O*NET
// summary page. The page lays them out as dt/dd pairs; the dt text carries
// the label (often with a year suffix, such as "Median wages (2024)") and the
// dd that follows carries the value. Labels that never appear leave their
// field empty.
func ParseSummary(r io.Reader) (*Enrichment, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	enrichment := &Enrichment{}
	doc.Find("dt").Each(func(_ int, dt *goquery.Selection) {
		label := collapseSpace(dt.Text())
		value := collapseSpace(dt.NextFiltered("dd").First().Text())

		switch {
		case strings.Contains(label, labelWages):
			enrichment.MedianWage = value
		case strings.Contains(label, labelGrowth):
			enrichment.Growth = value
		case strings.Contains(label, labelOpenings):
			enrichment.Openings = value
		}
	})

	return enrichment, nil
}

func collapseSpace(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}
