package domain

import (
	"context"
	"time"
)

// CalendarEvent is a busy entry on a user's calendar.
type CalendarEvent struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Attendees []string  `json:"attendees,omitempty"`
	Location  string    `json:"location,omitempty"`
	IsAllDay  bool      `json:"is_all_day,omitempty"`
}

// CalendarProvider supplies a user's events over a date range. Any source
// is interchangeable (a real calendar sync, a deterministic demo
// generator) as long as every event has StartTime <= EndTime.
type CalendarProvider interface {
	EventsForUser(ctx context.Context, userID string, from, to time.Time) ([]CalendarEvent, error)
}
