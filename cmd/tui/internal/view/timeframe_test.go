package view_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/chaibook/cmd/tui/internal/view"
)

func TestRange(t *testing.T) {
	wednesday := time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC)
	sunday := time.Date(2024, 1, 14, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		tf       view.Timeframe
		now      time.Time
		from, to string
	}{
		{name: "ThisWeek", tf: view.TimeframeThisWeek, now: wednesday, from: "2024-01-08", to: "2024-01-10"},
		{name: "ThisWeekOnSunday", tf: view.TimeframeThisWeek, now: sunday, from: "2024-01-08", to: "2024-01-14"},
		{name: "LastWeek", tf: view.TimeframeLastWeek, now: wednesday, from: "2024-01-01", to: "2024-01-07"},
		{name: "ThisMonth", tf: view.TimeframeThisMonth, now: wednesday, from: "2024-01-01", to: "2024-01-10"},
		{name: "LastMonthAcrossYear", tf: view.TimeframeLastMonth, now: wednesday, from: "2023-12-01", to: "2023-12-31"},
		{name: "AllIsOpen", tf: view.TimeframeAll, now: wednesday},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to := view.Range(tt.tf, tt.now)
			assert.Equal(t, tt.from, from)
			assert.Equal(t, tt.to, to)
		})
	}
}
