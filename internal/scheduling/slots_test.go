package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// weekStart is Monday 2025-06-30 00:00 UTC, used across the engine tests.
var weekStart = time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

func defaultConfig() Config {
	return Config{
		WorkingHours:            WorkingHours{Start: "09:00", End: "17:00"},
		ExcludedDays:            []time.Weekday{time.Sunday, time.Saturday},
		MaxConversationsPerWeek: 3,
		MinGapBetweenMeetings:   15,
		ConversationDuration:    30,
		BufferTimeBeforeMeeting: 5,
	}
}

func at(day, hour, min int) time.Time {
	return time.Date(2025, 6, 30+day, hour, min, 0, 0, time.UTC)
}

func TestFindFreeSlots_EmptyCalendar(t *testing.T) {
	cfg := defaultConfig()
	slots := FindFreeSlots(weekStart, cfg, nil)

	// Mon-Fri, one whole-window slot each.
	require.Len(t, slots, 5)
	for i, slot := range slots {
		assert.Equal(t, at(i, 9, 0), slot.Start)
		assert.Equal(t, at(i, 17, 0), slot.End)
		assert.InDelta(t, 480, slot.Duration, 1e-9)
	}
}

func TestFindFreeSlots_BufferAndGapSweep(t *testing.T) {
	cfg := defaultConfig()
	busy := []BusyInterval{
		{Start: at(2, 10, 0), End: at(2, 10, 45)},
		{Start: at(2, 11, 30), End: at(2, 12, 0)},
	}

	var wednesday []TimeSlot
	for _, slot := range FindFreeSlots(weekStart, cfg, busy) {
		if slot.Start.Day() == 2 {
			wednesday = append(wednesday, slot)
		}
	}

	// 09:00-10:00 gap fits 30+5, ends 5min before the meeting. The
	// 11:00-11:30 gap (after the 15min post-meeting gap) is too short for
	// conversation+buffer. Trailing slot starts 15min after the last
	// meeting and needs no buffer.
	require.Len(t, wednesday, 2)

	assert.Equal(t, at(2, 9, 0), wednesday[0].Start)
	assert.Equal(t, at(2, 9, 55), wednesday[0].End)
	assert.InDelta(t, 55, wednesday[0].Duration, 1e-9)

	assert.Equal(t, at(2, 12, 15), wednesday[1].Start)
	assert.Equal(t, at(2, 17, 0), wednesday[1].End)
	assert.InDelta(t, 285, wednesday[1].Duration, 1e-9)
}

func TestFindFreeSlots_SlotInvariants(t *testing.T) {
	cfg := defaultConfig()
	busy := []BusyInterval{
		{Start: at(0, 9, 30), End: at(0, 10, 30)},
		{Start: at(1, 13, 0), End: at(1, 14, 30)},
		{Start: at(1, 15, 0), End: at(1, 16, 0)},
		{Start: at(3, 9, 0), End: at(3, 17, 0)},
	}
	slots := FindFreeSlots(weekStart, cfg, busy)
	require.NotEmpty(t, slots)

	for i, slot := range slots {
		assert.InDelta(t, slot.End.Sub(slot.Start).Minutes(), slot.Duration, 1e-9, "duration matches end-start")
		assert.GreaterOrEqual(t, slot.Duration, 0.0)
		if i > 0 && dateOf(slots[i-1].Start) == dateOf(slot.Start) {
			assert.False(t, slot.Start.Before(slots[i-1].End), "same-day slots must not overlap")
		}
		for _, iv := range busy {
			if dateOf(iv.Start) == dateOf(slot.Start) {
				overlap := slot.Start.Before(iv.End) && iv.Start.Before(slot.End)
				assert.False(t, overlap, "slot %v overlaps busy %v", slot, iv)
			}
		}
	}
}

func TestFindFreeSlots_ExcludedDays(t *testing.T) {
	cfg := defaultConfig()
	cfg.ExcludedDays = []time.Weekday{time.Sunday, time.Monday, time.Friday, time.Saturday}

	slots := FindFreeSlots(weekStart, cfg, nil)
	require.Len(t, slots, 3)
	for _, slot := range slots {
		assert.True(t, midWeek(slot.Start), "only Tue-Thu should remain")
	}
}

func TestFindFreeSlots_DegenerateConfigs(t *testing.T) {
	tests := []struct {
		name  string
		tweak func(*Config)
	}{
		{"inverted window", func(c *Config) { c.WorkingHours = WorkingHours{Start: "17:00", End: "09:00"} }},
		{"zero-width window", func(c *Config) { c.WorkingHours = WorkingHours{Start: "12:00", End: "12:00"} }},
		{"malformed start", func(c *Config) { c.WorkingHours.Start = "9am" }},
		{"malformed end", func(c *Config) { c.WorkingHours.End = "25:99" }},
		{"every day excluded", func(c *Config) {
			c.ExcludedDays = []time.Weekday{0, 1, 2, 3, 4, 5, 6}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.tweak(&cfg)
			assert.Empty(t, FindFreeSlots(weekStart, cfg, nil))
		})
	}
}

func TestFindFreeSlots_SingleDigitHour(t *testing.T) {
	cfg := defaultConfig()
	cfg.WorkingHours = WorkingHours{Start: "9:00", End: "17:00"}

	slots := FindFreeSlots(weekStart, cfg, nil)
	require.Len(t, slots, 5)
	assert.Equal(t, 9, slots[0].Start.Hour())
}

func TestFindFreeSlots_HonorsInputLocation(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	start := time.Date(2025, 6, 30, 0, 0, 0, 0, loc)

	slots := FindFreeSlots(start, defaultConfig(), nil)
	require.Len(t, slots, 5)
	assert.Equal(t, loc, slots[0].Start.Location())
	assert.Equal(t, time.Monday, slots[0].Start.Weekday())
}
