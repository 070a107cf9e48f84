package subscription_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/chaibook/internal/subscription"
)

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestGate_Check(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)
	gate := subscription.Gate{WarnDays: 7, Now: func() time.Time { return now }}

	tests := []struct {
		name     string
		end      time.Time
		want     subscription.Status
		daysLeft int
	}{
		{name: "FarAway", end: day(2024, 6, 1), want: subscription.StatusActive, daysLeft: 83},
		{name: "EightDays", end: day(2024, 3, 18), want: subscription.StatusActive, daysLeft: 8},
		{name: "SevenDays", end: day(2024, 3, 17), want: subscription.StatusExpiringSoon, daysLeft: 7},
		{name: "OneDay", end: day(2024, 3, 11), want: subscription.StatusExpiringSoon, daysLeft: 1},
		{name: "EndDate", end: day(2024, 3, 10), want: subscription.StatusExpired, daysLeft: 0},
		{name: "Yesterday", end: day(2024, 3, 9), want: subscription.StatusExpired, daysLeft: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := gate.Check(tt.end)

			assert.Equal(t, tt.want, v.Status)
			assert.Equal(t, tt.daysLeft, v.DaysLeft)
		})
	}
}

func TestVerdict_ExpiredBlocks(t *testing.T) {
	gate := subscription.Gate{Now: func() time.Time { return day(2024, 1, 2) }}

	v := gate.Check(day(2024, 1, 1))

	assert.True(t, v.Blocked())
	assert.True(t, errors.Is(v.Err(), subscription.ErrExpired))
	assert.Empty(t, v.Warning())
}

func TestVerdict_WarningIsNotAnError(t *testing.T) {
	gate := subscription.Gate{Now: func() time.Time { return day(2024, 1, 1) }}

	v := gate.Check(day(2024, 1, 5))

	assert.False(t, v.Blocked())
	assert.NoError(t, v.Err())
	assert.Equal(t, "Your plan expires on 05-01-2024", v.Warning())
}

func TestGate_EndDateBlocksFromMidnight(t *testing.T) {
	end := day(2024, 3, 10)

	for _, at := range []time.Time{
		time.Date(2024, 3, 10, 0, 0, 1, 0, time.UTC),
		time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC),
	} {
		gate := subscription.Gate{Now: func() time.Time { return at }}
		assert.True(t, gate.Check(end).Blocked(), at)
	}

	gate := subscription.Gate{Now: func() time.Time { return time.Date(2024, 3, 9, 23, 59, 0, 0, time.UTC) }}
	assert.False(t, gate.Check(end).Blocked())
}

func TestGate_DefaultWindow(t *testing.T) {
	gate := subscription.Gate{Now: func() time.Time { return day(2024, 1, 1) }}

	assert.Equal(t, subscription.StatusExpiringSoon, gate.Check(day(2024, 1, 8)).Status)
	assert.Equal(t, subscription.StatusActive, gate.Check(day(2024, 1, 9)).Status)
}
