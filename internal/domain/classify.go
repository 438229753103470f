package domain

// Classification thresholds, exclusive (a reading exactly at a threshold
// stays in the lower tier).
const (
	highLevelThreshold   = 80
	highRainThreshold    = 70
	mediumLevelThreshold = 50
	mediumRainThreshold  = 40
)

// ClassifyRisk maps a water level and rain level to a risk tier. Pure and
// total; HIGH is checked before MEDIUM so a reading exceeding both sets of
// thresholds classifies HIGH.
func ClassifyRisk(level, rain float64) Risk {
	switch {
	case level > highLevelThreshold || rain > highRainThreshold:
		return RiskHigh
	case level > mediumLevelThreshold || rain > mediumRainThreshold:
		return RiskMedium
	default:
		return RiskLow
	}
}
