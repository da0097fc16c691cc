package scheduling

// Factors is the strategy-specific adjustment set summed into a slot's
// confidence. Each strategy uses a fixed struct with named fields instead
// of an open map, so the set of adjustments is visible in the type.
type Factors interface {
	Sum() float64
}

// AggressiveFactors are the adjustments applied by the aggressive policy.
type AggressiveFactors struct {
	Urgency   float64
	ShortSlot float64
	Morning   float64
}

func (f AggressiveFactors) Sum() float64 {
	return f.Urgency + f.ShortSlot + f.Morning
}

// ConservativeFactors are the adjustments applied by the conservative policy.
type ConservativeFactors struct {
	BufferBonus   float64
	MidWeek       float64
	PrimeTime     float64
	TightSchedule float64
}

func (f ConservativeFactors) Sum() float64 {
	return f.BufferBonus + f.MidWeek + f.PrimeTime + f.TightSchedule
}

// Score computes a slot's confidence in [0,1]. It starts at 0.5 and adds:
// a time-of-day bonus (10-11h strongest, 14-15h next, anything in 9-16h a
// little), a duration bonus capped at 0.2 (full at two hours), a mid-week
// bonus, and finally the strategy factors. The result is clamped, never
// rejected.
func Score(slot TimeSlot, factors Factors) float64 {
	confidence := 0.5

	hour := slot.Start.Hour()
	switch {
	case hour >= 10 && hour <= 11:
		confidence += 0.3
	case hour >= 14 && hour <= 15:
		confidence += 0.2
	case hour >= 9 && hour <= 16:
		confidence += 0.1
	}

	durationBonus := slot.Duration / 120
	if durationBonus > 0.2 {
		durationBonus = 0.2
	}
	confidence += durationBonus

	if midWeek(slot.Start) {
		confidence += 0.1
	}

	if factors != nil {
		confidence += factors.Sum()
	}

	if confidence > 1 {
		return 1
	}
	if confidence < 0 {
		return 0
	}
	return confidence
}
