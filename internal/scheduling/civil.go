package scheduling

import "time"

// civilDate is a calendar day without a time of day. Day bucketing and
// weekday classification go through it so results do not depend on the
// machine timezone, only on the location already carried by the inputs.
type civilDate struct {
	year  int
	month time.Month
	day   int
}

func dateOf(t time.Time) civilDate {
	y, m, d := t.Date()
	return civilDate{year: y, month: m, day: d}
}

// at returns the instant at hour:min on this date in loc.
func (c civilDate) at(hour, min int, loc *time.Location) time.Time {
	return time.Date(c.year, c.month, c.day, hour, min, 0, 0, loc)
}

// addDays returns the date n days later, normalizing month/year overflow.
func (c civilDate) addDays(n int, loc *time.Location) civilDate {
	return dateOf(time.Date(c.year, c.month, c.day+n, 0, 0, 0, 0, loc))
}

func (c civilDate) weekday(loc *time.Location) time.Weekday {
	return c.at(0, 0, loc).Weekday()
}

// midWeek reports whether t falls on Tuesday, Wednesday, or Thursday.
func midWeek(t time.Time) bool {
	wd := t.Weekday()
	return wd >= time.Tuesday && wd <= time.Thursday
}
