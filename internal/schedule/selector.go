package schedule

import (
	"time"
)

// Selector picks the single active class plan for a date. TermStart anchors
// week parity: the week containing TermStart is an A week, the next is B, and
// so on.
type Selector struct {
	TermStart time.Time
}

// WeekParityOf returns ParityA or ParityB for the week containing date,
// counted in calendar weeks from the week containing the term start. Both
// week starts are normalized to UTC dates before dividing: a DST transition
// inside the term makes one wall-clock week 167 or 169 hours long, which
// would otherwise shift the count by a week for the rest of the term.
func (s *Selector) WeekParityOf(date time.Time) string {
	a := utcMidnight(startOfWeek(s.TermStart))
	b := utcMidnight(startOfWeek(date))
	weeks := int(b.Sub(a).Hours() / (24 * 7))
	if weeks%2 == 0 {
		return ParityA
	}
	return ParityB
}

// utcMidnight re-reads t's calendar date as a UTC midnight, discarding the
// zone so durations between dates are exact multiples of 24h.
func utcMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// startOfWeek returns midnight of the Monday of the week containing t.
func startOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -offset)
}

// SelectPlan returns the plan active on date, or nil when no plan matches.
// nil means "no schedule today" and is not an error.
//
// Selection order: enabled and valid for the date, weekday match, then week
// parity when more than one candidate remains, then the most specific
// survivor: overlay plans beat base plans, otherwise the most recently
// edited plan wins.
func (s *Selector) SelectPlan(plans []*ClassPlan, date time.Time) *ClassPlan {
	day := DateOf(date)

	var candidates []*ClassPlan
	for _, p := range plans {
		if !p.Enabled {
			continue
		}
		if p.ValidFrom != nil && day.Before(*p.ValidFrom) {
			continue
		}
		if p.ValidUntil != nil && day.After(*p.ValidUntil) {
			continue
		}
		if p.Rule.Weekday != date.Weekday() {
			continue
		}
		candidates = append(candidates, p)
	}

	if len(candidates) > 1 {
		parity := s.WeekParityOf(date)
		var filtered []*ClassPlan
		for _, p := range candidates {
			switch p.Rule.WeekParity {
			case "", ParityAny:
				filtered = append(filtered, p)
			case parity:
				filtered = append(filtered, p)
			}
		}
		if len(filtered) > 0 {
			candidates = filtered
		}
	}

	var best *ClassPlan
	for _, p := range candidates {
		if best == nil {
			best = p
			continue
		}
		if p.IsOverlay != best.IsOverlay {
			if p.IsOverlay {
				best = p
			}
			continue
		}
		if p.LastEdited.After(best.LastEdited) {
			best = p
		}
	}
	return best
}
