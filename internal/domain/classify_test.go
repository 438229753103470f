package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyRisk(t *testing.T) {
	tests := []struct {
		name  string
		level float64
		rain  float64
		want  Risk
	}{
		{"high by level", 81, 0, RiskHigh},
		{"high by rain", 0, 71, RiskHigh},
		{"high by both", 95, 95, RiskHigh},
		{"medium by level", 60, 0, RiskMedium},
		{"medium by rain", 0, 50, RiskMedium},
		{"low", 10, 10, RiskLow},
		{"zero reading", 0, 0, RiskLow},
		{"thresholds are exclusive", 80, 70, RiskMedium},
		{"medium thresholds are exclusive", 50, 40, RiskLow},
		{"just above medium level", 50.01, 0, RiskMedium},
		{"just above high rain", 0, 70.01, RiskHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyRisk(tt.level, tt.rain))
		})
	}
}
