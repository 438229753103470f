package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock is a package-level time source so tests can freeze time via SetClock.
// Production code uses the real clock; tests inject a fake for deterministic
// timestamps and cooldown arithmetic.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source for record stamping. Pass nil to reset to
// real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Now returns the current time from the package clock.
func Now() time.Time {
	return clock.Now()
}

// NewSensorRecord stamps a classified reading with the current wall-clock
// time, ready for insertion. The ID is assigned later by the store.
func NewSensorRecord(r Reading, risk Risk) SensorRecord {
	return SensorRecord{
		Timestamp:  clock.Now().Format(TimestampLayout),
		FlowRate:   r.FlowRate,
		WaterLevel: r.WaterLevel,
		RainLevel:  r.RainLevel,
		Risk:       risk,
	}
}
