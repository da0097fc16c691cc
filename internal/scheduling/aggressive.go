package scheduling

import (
	"fmt"
	"sort"
	"strings"
)

// Aggressive minimizes time-to-booking: it walks free slots in
// chronological order and takes the first ones long enough to hold a
// conversation, up to the remaining weekly capacity.
type Aggressive struct{}

func (Aggressive) Name() string { return StrategyAggressive }

func (s Aggressive) FindOptimalMoments(sc Context) []Moment {
	remaining := remainingCapacity(sc)
	if remaining <= 0 {
		return nil
	}

	var moments []Moment
	for _, slot := range FindFreeSlots(sc.WeekStart, sc.Config, sc.Busy) {
		if len(moments) >= remaining {
			break
		}
		if slot.Duration < float64(sc.Config.ConversationDuration) {
			continue
		}
		moments = append(moments, Moment{
			ScheduledAt: slot.Start,
			Confidence:  Score(slot, aggressiveFactors(slot)),
			Reason:      aggressiveReason(slot, sc.Config),
			Strategy:    s.Name(),
		})
	}

	sort.SliceStable(moments, func(i, j int) bool {
		return moments[i].ScheduledAt.Before(moments[j].ScheduledAt)
	})
	if len(moments) > remaining {
		moments = moments[:remaining]
	}
	return moments
}

func aggressiveFactors(slot TimeSlot) AggressiveFactors {
	f := AggressiveFactors{Urgency: 0.2}
	if slot.Duration < 45 {
		f.ShortSlot = -0.1
	}
	if slot.Start.Hour() < 12 {
		f.Morning = 0.15
	}
	return f
}

func aggressiveReason(slot TimeSlot, cfg Config) string {
	var reasons []string

	switch hour := slot.Start.Hour(); {
	case hour < 10:
		reasons = append(reasons, "Early morning slot available")
	case hour < 12:
		reasons = append(reasons, "Mid-morning availability")
	case hour < 14:
		reasons = append(reasons, "Early afternoon opening")
	default:
		reasons = append(reasons, "Afternoon time slot")
	}

	duration := int(slot.Duration)
	switch {
	case duration >= 60:
		reasons = append(reasons, fmt.Sprintf("%d-minute window available", duration))
	case duration >= cfg.ConversationDuration+15:
		reasons = append(reasons, "Adequate time buffer")
	default:
		reasons = append(reasons, "Minimal but sufficient time")
	}

	reasons = append(reasons, "Prioritizing immediate scheduling")
	return strings.Join(reasons, ", ")
}
