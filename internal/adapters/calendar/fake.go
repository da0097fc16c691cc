// Package calendar provides a deterministic demo CalendarProvider. Events
// are derived from a hash of the user ID, so the same user always sees the
// same weekly calendar without any external integration.
package calendar

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"

	"conversationscheduler/internal/domain"
)

type meetingType struct {
	title    string
	duration int // minutes
}

var meetingTypes = []meetingType{
	{"Team Standup", 30},
	{"Product Review", 60},
	{"Client Meeting", 45},
	{"Design Review", 90},
	{"1:1 with Manager", 30},
	{"Sprint Planning", 120},
	{"Code Review Session", 60},
	{"Training Session", 60},
}

var attendeePool = []string{
	"ada@koyejo.com",
	"bayo@koyejo.com",
	"charlie@koyejo.com",
	"omar@koyejo.com",
	"eve@koyejo.com",
	"frank@koyejo.com",
}

var locations = []string{
	"Conference Room A",
	"Conference Room B",
	"Zoom Meeting",
	"Google Meet",
	"Office 201",
	"Cafeteria",
	"Remote",
}

const (
	workDayStartMin = 9 * 60
	workDayEndMin   = 17 * 60
)

type fakeProvider struct{}

// NewFakeProvider returns a CalendarProvider that synthesizes a plausible
// meeting schedule per user. Busy users and light users stay busy and light
// across calls.
func NewFakeProvider() domain.CalendarProvider {
	return &fakeProvider{}
}

func (p *fakeProvider) EventsForUser(ctx context.Context, userID string, from, to time.Time) ([]domain.CalendarEvent, error) {
	userSeed := hashUserID(userID)

	var events []domain.CalendarEvent
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		weekday := day.Weekday()
		isWeekend := weekday == time.Sunday || weekday == time.Saturday
		if isWeekend && userSeed%4 != 0 {
			continue
		}
		events = append(events, dailyEvents(day, userSeed)...)
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartTime.Before(events[j].StartTime)
	})
	return events, nil
}

func dailyEvents(day time.Time, userSeed int) []domain.CalendarEvent {
	weekday := int(day.Weekday())
	meetingCount := (userSeed + weekday) % 5
	if meetingCount < 1 {
		meetingCount = 1
	}

	var events []domain.CalendarEvent
	var used [][2]int
	for i := 0; i < meetingCount; i++ {
		mt := meetingTypes[(userSeed+i+weekday)%len(meetingTypes)]
		startMin, ok := findAvailableStart(used, mt.duration, userSeed+i)
		if !ok {
			continue
		}
		used = append(used, [2]int{startMin, startMin + mt.duration})

		start := atMinute(day, startMin)
		events = append(events, domain.CalendarEvent{
			ID:        uuid.NewString(),
			Title:     mt.title,
			StartTime: start,
			EndTime:   start.Add(time.Duration(mt.duration) * time.Minute),
			Attendees: pickAttendees(userSeed + i),
			Location:  locations[(userSeed+i)%len(locations)],
		})
	}

	if (userSeed+weekday)%3 == 0 {
		events = append(events, domain.CalendarEvent{
			ID:        uuid.NewString(),
			Title:     "Lunch Break",
			StartTime: atMinute(day, 12*60),
			EndTime:   atMinute(day, 13*60),
		})
	}
	return events
}

// findAvailableStart scans the working day in half-hour steps for a start
// minute where the meeting fits without overlapping an already placed one,
// then picks one of the candidates by seed.
func findAvailableStart(used [][2]int, duration, seed int) (int, bool) {
	var candidates []int
	for start := workDayStartMin; start <= workDayEndMin-duration; start += 30 {
		end := start + duration
		overlaps := false
		for _, slot := range used {
			if (start >= slot[0] && start < slot[1]) ||
				(end > slot[0] && end <= slot[1]) ||
				(start <= slot[0] && end >= slot[1]) {
				overlaps = true
				break
			}
		}
		if !overlaps {
			candidates = append(candidates, start)
		}
	}
	if len(candidates) == 0 {
		return 0, false
	}
	return candidates[seed%len(candidates)], true
}

func pickAttendees(seed int) []string {
	count := seed%3 + 1
	var attendees []string
	for i := 0; i < count; i++ {
		candidate := attendeePool[(seed+i)%len(attendeePool)]
		if !slices.Contains(attendees, candidate) {
			attendees = append(attendees, candidate)
		}
	}
	return attendees
}

func atMinute(day time.Time, minute int) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, minute/60, minute%60, 0, 0, day.Location())
}

// hashUserID reduces a user ID to a stable non-negative seed using 32-bit
// string hashing.
func hashUserID(userID string) int {
	var hash int32
	for _, c := range userID {
		hash = hash<<5 - hash + int32(c)
	}
	if hash < 0 {
		hash = -hash
	}
	return int(hash)
}
