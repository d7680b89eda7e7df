package kitchen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayWindow_UsesBranchLocalDay(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	require.NoError(t, err)

	// 18:30 UTC on the 18th is 01:30 on the 19th in Hanoi.
	now := time.Date(2026, 10, 18, 18, 30, 0, 0, time.UTC)
	window := DayWindow(now, loc)

	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, loc), window.Start)
	assert.Equal(t, time.Date(2026, 10, 20, 0, 0, 0, 0, loc), window.End)
	assert.True(t, window.Contains(now))
	assert.False(t, window.Contains(window.End))
	assert.True(t, window.Contains(window.Start))
}

func TestFixedClock(t *testing.T) {
	at := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, at, FixedClock(at).Now())
}

func TestLoadLocation_FallsBack(t *testing.T) {
	assert.Equal(t, time.UTC, LoadLocation("", time.UTC))
	assert.Equal(t, time.UTC, LoadLocation("Mars/Olympus_Mons", time.UTC))
	assert.Equal(t, "Asia/Ho_Chi_Minh", LoadLocation("Asia/Ho_Chi_Minh", time.UTC).String())
}
