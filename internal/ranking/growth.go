package ranking

// Projected-growth labels exactly as they appear on O*NET summary pages.
const (
	GrowthDecline    = "Decline (-1% or lower)"
	GrowthNone       = "Little or no change"
	GrowthSlower     = "Slower than average (1% to 2%)"
	GrowthAverage    = "Average (3% to 4%)"
	GrowthFaster     = "Faster than average (5% to 6%)"
	GrowthMuchFaster = "Much faster than average (7% or higher)"
)

var growthScale = map[string]float64{
	GrowthDecline:    0.0,
	GrowthNone:       0.2,
	GrowthSlower:     0.4,
	GrowthAverage:    0.6,
	GrowthFaster:     0.8,
	GrowthMuchFaster: 1.0,
}

// GrowthValue maps a growth label onto [0,1]. Unknown or empty labels report
// ok=false and contribute nothing to the composite.
func GrowthValue(label string) (float64, bool) {
	v, ok := growthScale[label]
	return v, ok
}
