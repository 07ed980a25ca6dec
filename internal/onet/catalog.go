package onet

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Column headers shared by the catalog and the results file. The names match
// the O*NET export format and are matched case-sensitively.
const (
	colJobZone   = "Job Zone"
	colCode      = "Code"
	colName      = "Occupation"
	colDataLevel = "Data-level"
	colURL       = "url"
	colWage      = "Median Wage"
	colGrowth    = "Projected Growth"
	colOpenings  = "Projected Job Openings"
	colScore     = "ai_proof_score"
	colRanking   = "final_ranking"
	colDrivers   = "key_drivers"
)

var catalogColumns = []string{
	colJobZone, colCode, colName, colDataLevel, colURL,
	colWage, colGrowth, colOpenings,
}

// LoadCatalog reads the occupation catalog from a CSV file. Cells are matched
// by header name, so the enrichment columns may be missing on files that have
// not been enriched yet.
func LoadCatalog(path string) (*Occupations, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	header, rows, err := decodeRows(file)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}

	for _, required := range []string{colCode, colName} {
		if !contains(header, required) {
			return nil, fmt.Errorf("catalog %s is missing the %q column", path, required)
		}
	}

	occupations := &Occupations{Items: make([]*Occupation, 0, len(rows))}
	for _, row := range rows {
		occupations.Items = append(occupations.Items, &Occupation{
			JobZone:    row[colJobZone],
			Code:       row[colCode],
			Name:       row[colName],
			DataLevel:  row[colDataLevel],
			URL:        row[colURL],
			MedianWage: row[colWage],
			Growth:     row[colGrowth],
			Openings:   row[colOpenings],
		})
	}

	return occupations, nil
}

// WriteCatalog rewrites the catalog with the enrichment columns included.
func (o *Occupations) WriteCatalog(path string) error {
	rows := make([][]string, 0, len(o.Items))
	for _, occ := range o.Items {
		rows = append(rows, []string{
			occ.JobZone, occ.Code, occ.Name, occ.DataLevel, occ.URL,
			occ.MedianWage, occ.Growth, occ.Openings,
		})
	}

	return writeCSV(path, catalogColumns, rows)
}

// decodeRows reads every record, keying cells by the header row. Short rows
// leave their trailing columns empty.
func decodeRows(r io.Reader) ([]string, []map[string]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) == 0 {
		return nil, nil, nil
	}

	header := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			}
		}
		rows = append(rows, row)
	}

	return header, rows, nil
}

// writeCSV writes a whole file through a temp file and a rename, so readers
// never observe a partially-written state.
func writeCSV(path string, header []string, rows [][]string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	writer := csv.NewWriter(tmp)
	if err := writer.Write(header); err != nil {
		tmp.Close()
		return err
	}
	if err := writer.WriteAll(rows); err != nil {
		tmp.Close()
		return err
	}
	if err := writer.Error(); err != nil {
		tmp.Close()
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
