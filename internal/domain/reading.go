package domain

// Risk is the flood-risk tier derived from a reading.
type Risk string

const (
	RiskLow    Risk = "LOW"
	RiskMedium Risk = "MEDIUM"
	RiskHigh   Risk = "HIGH"
)

// Reading is a validated sensor submission. RiverDistance is clamped to be
// non-negative; the other fields are taken as sent.
type Reading struct {
	FlowRate      float64
	WaterLevel    float64
	RainLevel     float64
	RiverDistance float64
}

// TimestampLayout is the wall-clock format persisted with each record,
// second precision, matching what the dashboard renders verbatim.
const TimestampLayout = "2006-01-02 15:04:05"

// SensorRecord is the persisted form of a classified reading. Records are
// immutable once written; ID is assigned by the store and totally orders
// all inserts.
type SensorRecord struct {
	ID         int64
	Timestamp  string
	FlowRate   float64
	WaterLevel float64
	RainLevel  float64
	Risk       Risk
}
