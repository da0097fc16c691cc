package scheduling

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// FindFreeSlots sweeps the 7-day window starting at weekStart and returns
// bookable free slots in chronological order, day by day.
//
// Per day: busy intervals starting on that day are sorted ascending and a
// cursor walks from the working-window start. A gap before an interval
// becomes a slot only if it fits the conversation plus the pre-meeting
// buffer; the buffer is reserved, so the slot ends buffer minutes before
// the interval and the buffer is excluded from the slot duration. After
// each interval the cursor jumps past the configured minimum gap. The
// trailing gap up to the end of the working window needs no buffer; that
// asymmetry is deliberate.
func FindFreeSlots(weekStart time.Time, cfg Config, busy []BusyInterval) []TimeSlot {
	startHour, startMin, okStart := parseClock(cfg.WorkingHours.Start)
	endHour, endMin, okEnd := parseClock(cfg.WorkingHours.End)
	if !okStart || !okEnd {
		return nil
	}

	loc := weekStart.Location()
	excluded := make(map[time.Weekday]struct{}, len(cfg.ExcludedDays))
	for _, d := range cfg.ExcludedDays {
		excluded[d] = struct{}{}
	}

	var slots []TimeSlot
	first := dateOf(weekStart)
	for day := 0; day < 7; day++ {
		date := first.addDays(day, loc)
		if _, skip := excluded[date.weekday(loc)]; skip {
			continue
		}
		workStart := date.at(startHour, startMin, loc)
		workEnd := date.at(endHour, endMin, loc)
		slots = append(slots, dailySlots(date, workStart, workEnd, cfg, busy)...)
	}
	return slots
}

func dailySlots(date civilDate, workStart, workEnd time.Time, cfg Config, busy []BusyInterval) []TimeSlot {
	var dayBusy []BusyInterval
	for _, iv := range busy {
		if dateOf(iv.Start) == date {
			dayBusy = append(dayBusy, iv)
		}
	}
	sort.SliceStable(dayBusy, func(i, j int) bool {
		return dayBusy[i].Start.Before(dayBusy[j].Start)
	})

	var slots []TimeSlot
	cursor := workStart
	for _, iv := range dayBusy {
		if cursor.Before(iv.Start) {
			gap := iv.Start.Sub(cursor).Minutes()
			if gap >= float64(cfg.ConversationDuration+cfg.BufferTimeBeforeMeeting) {
				slots = append(slots, TimeSlot{
					Start:    cursor,
					End:      iv.Start.Add(-time.Duration(cfg.BufferTimeBeforeMeeting) * time.Minute),
					Duration: gap - float64(cfg.BufferTimeBeforeMeeting),
				})
			}
		}
		cursor = iv.End.Add(time.Duration(cfg.MinGapBetweenMeetings) * time.Minute)
	}

	if cursor.Before(workEnd) {
		gap := workEnd.Sub(cursor).Minutes()
		if gap >= float64(cfg.ConversationDuration) {
			slots = append(slots, TimeSlot{Start: cursor, End: workEnd, Duration: gap})
		}
	}
	return slots
}

// parseClock parses an "HH:MM" (or "H:MM") wall-clock string. Malformed
// input reports ok=false; the caller degrades to zero slots rather than
// erroring.
func parseClock(s string) (hour, min int, ok bool) {
	h, m, found := strings.Cut(s, ":")
	if !found || len(h) == 0 || len(h) > 2 || len(m) != 2 {
		return 0, 0, false
	}
	hv, err := strconv.Atoi(h)
	if err != nil || hv < 0 || hv > 23 {
		return 0, 0, false
	}
	mv, err := strconv.Atoi(m)
	if err != nil || mv < 0 || mv > 59 {
		return 0, 0, false
	}
	return hv, mv, true
}
