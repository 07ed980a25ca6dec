package onet

import (
	"encoding/csv"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
)

// ScoredOccupation is one row of the persisted results file: the occupation,
// the model's score and rationale, and the computed final ranking.
type ScoredOccupation struct {
	Occupation

	Score        string
	Drivers      string
	FinalRanking float64
}

// ScoreValue parses the persisted score. Rows with an empty or unparseable
// score report ok=false and contribute no resilience signal.
func (s *ScoredOccupation) ScoreValue() (float64, bool) {
	v, err := strconv.ParseFloat(s.Score, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

type Results struct {
	Items []*ScoredOccupation
}

func (r *Results) Len() int {
	return len(r.Items)
}

// Codes returns the set of occupation codes already present, used to build
// the resume set for a scoring run.
func (r *Results) Codes() map[string]struct{} {
	codes := make(map[string]struct{}, len(r.Items))
	for _, row := range r.Items {
		codes[row.Code] = struct{}{}
	}
	return codes
}

// OpeningsValues returns every raw projected-openings cell. The ranking scale
// is built from the full set, so it needs them all, parseable or not.
func (r *Results) OpeningsValues() []string {
	values := make([]string, 0, len(r.Items))
	for _, row := range r.Items {
		values = append(values, row.Openings)
	}
	return values
}

var resultColumns = []string{
	colJobZone, colCode, colName, colDataLevel, colURL,
	colWage, colGrowth, colOpenings,
	colScore, colRanking, colDrivers,
}

// ResultsFile is the persisted record store for scored occupations. Scoring
// runs append to it batch by batch; ranking passes rewrite it in full.
type ResultsFile struct {
	path string
}

func NewResultsFile(path string) *ResultsFile {
	return &ResultsFile{path: path}
}

func (f *ResultsFile) Path() string {
	return f.path
}

// Load reads the whole results file. A file that does not exist yet loads as
// an empty result set. Files written before the final_ranking column existed
// load with a zero ranking.
func (f *ResultsFile) Load() (*Results, error) {
	file, err := os.Open(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Results{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	_, rows, err := decodeRows(file)
	if err != nil {
		return nil, err
	}

	results := &Results{Items: make([]*ScoredOccupation, 0, len(rows))}
	for _, row := range rows {
		ranking, _ := strconv.ParseFloat(row[colRanking], 64)
		results.Items = append(results.Items, &ScoredOccupation{
			Occupation: Occupation{
				JobZone:    row[colJobZone],
				Code:       row[colCode],
				Name:       row[colName],
				DataLevel:  row[colDataLevel],
				URL:        row[colURL],
				MedianWage: row[colWage],
				Growth:     row[colGrowth],
				Openings:   row[colOpenings],
			},
			Score:        row[colScore],
			Drivers:      row[colDrivers],
			FinalRanking: ranking,
		})
	}

	return results, nil
}

// Append adds freshly-scored rows to the end of the file, creating it with a
// header when needed. Appended rows carry an empty final_ranking cell until
// the next ranking pass fills it.
func (f *ResultsFile) Append(rows []*ScoredOccupation) error {
	if len(rows) == 0 {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}

	needHeader := true
	if info, err := os.Stat(f.path); err == nil && info.Size() > 0 {
		needHeader = false
	}

	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(file)
	if needHeader {
		if err := writer.Write(resultColumns); err != nil {
			file.Close()
			return err
		}
	}

	for _, row := range rows {
		if err := writer.Write(row.record("")); err != nil {
			file.Close()
			return err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}

// Rewrite replaces the whole file with the given result set, rankings
// included, in the order the set carries.
func (f *ResultsFile) Rewrite(results *Results) error {
	rows := make([][]string, 0, results.Len())
	for _, row := range results.Items {
		ranking := strconv.FormatFloat(row.FinalRanking, 'f', -1, 64)
		rows = append(rows, row.record(ranking))
	}

	return writeCSV(f.path, resultColumns, rows)
}

func (s *ScoredOccupation) record(ranking string) []string {
	return []string{
		s.JobZone, s.Code, s.Name, s.DataLevel, s.URL,
		s.MedianWage, s.Growth, s.Openings,
		s.Score, ranking, s.Drivers,
	}
}
