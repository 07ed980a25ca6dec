package onet

import "strings"

// Occupation is a single row of the O*NET catalog. The three labor-market
// fields stay empty until the enrichment pass fills them in.
type Occupation struct {
	JobZone    string
	Code       string
	Name       string
	DataLevel  string
	URL        string
	MedianWage string
	Growth     string
	Openings   string
}

// Scoreable reports whether the occupation carries enough O*NET data to be
// worth sending to the scoring model.
func (o *Occupation) Scoreable() bool {
	zone := strings.TrimSpace(o.JobZone)
	if zone == "" || strings.EqualFold(zone, "n/a") {
		return false
	}

	return o.DataLevel == "Y"
}

type Occupations struct {
	Items []*Occupation
}

func (o *Occupations) Len() int {
	return len(o.Items)
}

func (o *Occupations) FindByCode(code string) *Occupation {
	for _, occ := range o.Items {
		if occ.Code == code {
			return occ
		}
	}
	return nil
}

func (o *Occupations) Codes() []string {
	codes := make([]string, 0, len(o.Items))
	for _, occ := range o.Items {
		codes = append(codes, occ.Code)
	}
	return codes
}

// Batches splits the list into groups of at most size items, preserving order.
func (o *Occupations) Batches(size int) []*Occupations {
	if size <= 0 {
		size = 1
	}

	batches := make([]*Occupations, 0, (len(o.Items)+size-1)/size)
	for start := 0; start < len(o.Items); start += size {
		end := start + size
		if end > len(o.Items) {
			end = len(o.Items)
		}
		batches = append(batches, &Occupations{Items: o.Items[start:end]})
	}
	return batches
}
