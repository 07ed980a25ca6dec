package ranking

import (
	"math"
	"strconv"
	"strings"
)

// OpeningsScale normalizes projected-openings counts. Counts are heavily
// skewed, so values are log-transformed and then min-max scaled against the
// whole record set of one ranking pass.
type OpeningsScale struct {
	logMin   float64
	logRange float64
}

// NewOpeningsScale builds the scale from every raw openings value in the set.
// With no qualifying values, or all qualifying values equal, the range
// defaults to 1.0 so normalization never divides by zero.
func NewOpeningsScale(values []string) *OpeningsScale {
	logs := make([]float64, 0, len(values))
	for _, raw := range values {
		if count, ok := ParseOpenings(raw); ok {
			logs = append(logs, math.Log(float64(count)))
		}
	}

	scale := &OpeningsScale{logRange: 1.0}
	if len(logs) == 0 {
		return scale
	}

	minLog, maxLog := logs[0], logs[0]
	for _, v := range logs[1:] {
		minLog = math.Min(minLog, v)
		maxLog = math.Max(maxLog, v)
	}

	scale.logMin = minLog
	if maxLog > minLog {
		scale.logRange = maxLog - minLog
	}

	return scale
}

// Normalize maps a raw openings value into [0,1]. Values that do not parse as
// positive integers report ok=false.
func (s *OpeningsScale) Normalize(raw string) (float64, bool) {
	count, ok := ParseOpenings(raw)
	if !ok {
		return 0, false
	}

	return (math.Log(float64(count)) - s.logMin) / s.logRange, true
}

// ParseOpenings parses a projected-openings count such as "139,900". Only
// positive integers qualify.
func ParseOpenings(raw string) (int64, bool) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if cleaned == "" {
		return 0, false
	}

	count, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil || count <= 0 {
		return 0, false
	}

	return count, true
}
