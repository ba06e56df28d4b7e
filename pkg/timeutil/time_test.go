package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNow_InGatewayZone(t *testing.T) {
	assert.True(t, InGatewayZone(Now()))
}

func TestInGatewayZone(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		expected bool
	}{
		{"gateway zone", time.Date(2024, 3, 1, 0, 0, 0, 0, GatewayLocation()), true},
		{"utc", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), false},
		{"same offset other name", time.Date(2024, 3, 1, 0, 0, 0, 0, time.FixedZone("PST", -8*3600)), false},
		{"named zone with dst", time.Date(2024, 3, 1, 0, 0, 0, 0, time.FixedZone("America/Los_Angeles", -8*3600)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, InGatewayZone(tt.input))
		})
	}
}

func TestParseGatewayTime(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"wire date", "05-Feb-17", time.Date(2017, 2, 5, 0, 0, 0, 0, GatewayLocation())},
		{"report date", "11/20/2025", time.Date(2025, 11, 20, 0, 0, 0, 0, GatewayLocation())},
		{"ipn date", "01/12/2017 09:15 PM", time.Date(2017, 1, 12, 21, 15, 0, 0, GatewayLocation())},
		{"iso date", "2025-11-20", time.Date(2025, 11, 20, 0, 0, 0, 0, GatewayLocation())},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseGatewayTime(tt.input)
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "got %v want %v", got, tt.want)
			assert.True(t, InGatewayZone(*got))
		})
	}

	t.Run("empty and garbage", func(t *testing.T) {
		assert.Nil(t, ParseGatewayTime(""))
		assert.Nil(t, ParseGatewayTime("not a date"))
	})
}

func TestFormatting(t *testing.T) {
	d := Date(2017, time.February, 5)

	assert.Equal(t, "05-Feb-17", FormatWireDate(d))
	assert.Equal(t, "02/05/2017", FormatReportDate(d))
}

func TestStartAndEndOfDay(t *testing.T) {
	input := time.Date(2025, 11, 20, 12, 30, 45, 0, GatewayLocation())

	start := StartOfDay(input)
	end := EndOfDay(input)

	assert.Equal(t, "2025-11-20 00:00:00 -0800 Etc/GMT+8", start.String())
	assert.Equal(t, 23, end.Hour())
	assert.True(t, InGatewayZone(start))
	assert.True(t, InGatewayZone(end))
}
