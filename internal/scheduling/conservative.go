package scheduling

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// settleBuffer is how far into a slot the conservative policy pushes the
// scheduled instant, when the slot can afford it.
const settleBuffer = 15 * time.Minute

// Conservative prefers fewer, higher-quality, well-spread moments: it
// filters slots to a quality floor, schedules inside the slot rather than
// at its edge, ranks by confidence, and caps how many land on one day.
type Conservative struct{}

func (Conservative) Name() string { return StrategyConservative }

func (s Conservative) FindOptimalMoments(sc Context) []Moment {
	remaining := remainingCapacity(sc)
	if remaining <= 0 {
		return nil
	}

	var moments []Moment
	for _, slot := range FindFreeSlots(sc.WeekStart, sc.Config, sc.Busy) {
		if len(moments) >= remaining {
			break
		}
		if !isHighQuality(slot, sc.Config) {
			continue
		}
		moments = append(moments, Moment{
			ScheduledAt: optimalTimeInSlot(slot, sc.Config),
			Confidence:  Score(slot, conservativeFactors(slot, sc.Config)),
			Reason:      conservativeReason(slot, sc.Config),
			Strategy:    s.Name(),
		})
	}

	sort.SliceStable(moments, func(i, j int) bool {
		return moments[i].Confidence > moments[j].Confidence
	})

	moments = distributeAcrossWeek(moments, sc.Config)
	if len(moments) > remaining {
		moments = moments[:remaining]
	}
	return moments
}

// isHighQuality keeps only slots with at least 30 minutes of slack beyond
// the conversation, away from Monday and Friday, starting between 9 and 16.
func isHighQuality(slot TimeSlot, cfg Config) bool {
	if slot.Duration < float64(cfg.ConversationDuration+30) {
		return false
	}
	if wd := slot.Start.Weekday(); wd == time.Monday || wd == time.Friday {
		return false
	}
	hour := slot.Start.Hour()
	return hour >= 9 && hour <= 16
}

// optimalTimeInSlot offsets the start by the settle buffer unless that
// would leave too little room for the conversation before the slot ends.
func optimalTimeInSlot(slot TimeSlot, cfg Config) time.Time {
	optimal := slot.Start.Add(settleBuffer)
	latest := slot.End.Add(-time.Duration(cfg.ConversationDuration) * time.Minute)
	if optimal.After(latest) {
		return slot.Start
	}
	return optimal
}

func conservativeFactors(slot TimeSlot, cfg Config) ConservativeFactors {
	f := ConservativeFactors{BufferBonus: 0.1, MidWeek: -0.1}
	if slot.Duration > float64(cfg.ConversationDuration+45) {
		f.BufferBonus = 0.3
	}
	if midWeek(slot.Start) {
		f.MidWeek = 0.2
	}
	if isPrimeTime(slot.Start) {
		f.PrimeTime = 0.25
	}
	if slot.Duration < float64(cfg.ConversationDuration+30) {
		f.TightSchedule = -0.2
	}
	return f
}

func isPrimeTime(t time.Time) bool {
	hour := t.Hour()
	return (hour >= 10 && hour <= 11) || (hour >= 14 && hour <= 15)
}

func conservativeReason(slot TimeSlot, cfg Config) string {
	var reasons []string

	if midWeek(slot.Start) {
		reasons = append(reasons, fmt.Sprintf("Optimal %s scheduling", slot.Start.Weekday()))
	}

	hour := slot.Start.Hour()
	if isPrimeTime(slot.Start) {
		reasons = append(reasons, "Prime conversation time")
	} else if hour >= 10 && hour <= 15 {
		reasons = append(reasons, "Good time of day")
	}

	buffer := int(slot.Duration) - cfg.ConversationDuration
	if buffer >= 45 {
		reasons = append(reasons, fmt.Sprintf("Generous %dmin buffer", buffer))
	} else if buffer >= 30 {
		reasons = append(reasons, fmt.Sprintf("Adequate %dmin buffer", buffer))
	}

	reasons = append(reasons, "Optimized for quality interaction")
	return strings.Join(reasons, ", ")
}

// distributeAcrossWeek caps how many moments land on a single calendar day
// at ceil(maxConversationsPerWeek/5), preserving each day's confidence
// order, then re-ranks the survivors by confidence.
func distributeAcrossWeek(moments []Moment, cfg Config) []Moment {
	byDay := make(map[civilDate][]Moment)
	var dayOrder []civilDate
	for _, m := range moments {
		day := dateOf(m.ScheduledAt)
		if _, seen := byDay[day]; !seen {
			dayOrder = append(dayOrder, day)
		}
		byDay[day] = append(byDay[day], m)
	}

	maxPerDay := (cfg.MaxConversationsPerWeek + 4) / 5
	var distributed []Moment
	for _, day := range dayOrder {
		dayMoments := byDay[day]
		if len(dayMoments) > maxPerDay {
			dayMoments = dayMoments[:maxPerDay]
		}
		distributed = append(distributed, dayMoments...)
	}

	sort.SliceStable(distributed, func(i, j int) bool {
		return distributed[i].Confidence > distributed[j].Confidence
	})
	return distributed
}
