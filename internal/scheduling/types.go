// Package scheduling implements the slot-discovery and strategy-scoring
// engine. It is a pure library: every function is deterministic over its
// inputs, performs no I/O, and holds no shared state, so concurrent calls
// need no synchronization.
package scheduling

import "time"

// Strategy identifiers accepted by the Registry.
const (
	StrategyAggressive   = "aggressive"
	StrategyConservative = "conservative"
)

// WorkingHours is a daily working window given as wall-clock "HH:MM" strings.
type WorkingHours struct {
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

// Config is the scheduling policy for a single user. It is supplied per
// request and treated as immutable for the duration of a call. The caller
// is responsible for validating it; a degenerate config (inverted or
// zero-width working window) yields zero slots rather than an error.
type Config struct {
	WorkingHours            WorkingHours   `json:"working_hours" yaml:"working_hours"`
	ExcludedDays            []time.Weekday `json:"excluded_days" yaml:"excluded_days"`
	MaxConversationsPerWeek int            `json:"max_conversations_per_week" yaml:"max_conversations_per_week"`
	MinGapBetweenMeetings   int            `json:"min_gap_between_meetings" yaml:"min_gap_between_meetings"`
	ConversationDuration    int            `json:"conversation_duration" yaml:"conversation_duration"`
	BufferTimeBeforeMeeting int            `json:"buffer_time_before_meeting" yaml:"buffer_time_before_meeting"`
}

// BusyInterval is the part of a calendar event the engine cares about:
// a span of time during which the user is unavailable.
type BusyInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// TimeSlot is a computed free interval inside a working day. Duration is
// fractional minutes and always equals End minus Start minus any reserved
// buffer already carved out of the slot.
type TimeSlot struct {
	Start    time.Time
	End      time.Time
	Duration float64
}

// Booking is a previously committed conversation. Only its instant matters
// to the engine: bookings decrement the weekly quota but are never checked
// for time overlap against newly proposed moments.
type Booking struct {
	ScheduledAt time.Time `json:"scheduled_at"`
}

// Moment is a recommended instant to hold a conversation.
type Moment struct {
	ScheduledAt time.Time `json:"scheduled_at"`
	Confidence  float64   `json:"confidence"`
	Reason      string    `json:"reason"`
	Strategy    string    `json:"strategy"`
}

// Context carries everything a strategy needs for one evaluation.
// WeekStart must be the first instant of the day that opens the 7-day
// analysis window; the engine does not normalize it.
type Context struct {
	UserID    string
	Config    Config
	Busy      []BusyInterval
	Existing  []Booking
	WeekStart time.Time
}

// Strategy is a named scheduling policy.
type Strategy interface {
	Name() string
	FindOptimalMoments(sc Context) []Moment
}

// remainingCapacity is the weekly quota minus bookings already inside
// [weekStart, weekStart+6 days]. May be negative.
func remainingCapacity(sc Context) int {
	weekEnd := sc.WeekStart.AddDate(0, 0, 6)
	used := 0
	for _, b := range sc.Existing {
		if !b.ScheduledAt.Before(sc.WeekStart) && !b.ScheduledAt.After(weekEnd) {
			used++
		}
	}
	return sc.Config.MaxConversationsPerWeek - used
}
