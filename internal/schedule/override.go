package schedule

import (
	"log/slog"
	"time"
)

// PlanLookup resolves a plan ID to the stored plan, used to find an overlay's
// source plan. Returns nil when the ID is unknown.
type PlanLookup func(id string) *ClassPlan

// OverrideResolver applies one-off substitutions and overlay diffing to the
// plan selected for a date. It never mutates its inputs: the effective plan is
// always a fresh copy.
type OverrideResolver struct {
	Logger *slog.Logger
}

// Apply returns the effective plan for the date after temp changes and
// overlay diffing, plus the IDs of non-permanent changes that applied and
// should be marked used by the caller. Already-used non-permanent changes
// keep substituting for display on their date; they are just not reported
// again.
//
// Permanent changes apply on every tick whose date equals ChangeDate and are
// never reported as consumed. Whether that was meant as a recurrence rule in
// the first place is an open product question; the literal single-date
// behavior is preserved here.
func (r *OverrideResolver) Apply(base *ClassPlan, lookup PlanLookup, changes []TempChange, date time.Time) (*ClassPlan, []string) {
	if base == nil {
		return nil, nil
	}

	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	effective := base.Clone()
	day := DateOf(date)

	// Overlay diff first: recompute Changed from the overlay's source plan,
	// then let temp changes flag on top.
	if effective.IsOverlay && effective.OverlaySourceID != "" && lookup != nil {
		if src := lookup(effective.OverlaySourceID); src != nil {
			for i := range effective.Classes {
				if i < len(src.Classes) {
					effective.Classes[i].Changed = effective.Classes[i].SubjectID != src.Classes[i].SubjectID
				}
			}
		}
	}

	var consumed []string
	substituted := make(map[int]string)

	for _, tc := range changes {
		if tc.ChangeDate != day {
			continue
		}
		slot := effective.slotByID(tc.OriginalSlotID)
		if slot < 0 {
			logger.Warn("temp change targets unknown slot",
				"change", tc.ID, "slot", tc.OriginalSlotID, "plan", effective.ID)
			continue
		}

		if prev, ok := substituted[slot]; ok {
			// Last-applied-wins by input order; flagged as a known ambiguity.
			logger.Warn("conflicting temp changes for slot, last wins",
				"slot", tc.OriginalSlotID, "first", prev, "second", tc.ID)
		}
		substituted[slot] = tc.ID

		effective.Classes[slot].SubjectID = tc.NewSubjectID
		effective.Classes[slot].Changed = true

		if !tc.IsPermanent && !tc.Used {
			consumed = append(consumed, tc.ID)
		}
	}

	return effective, consumed
}

// slotByID finds the class slot with the given ID, falling back to -1.
func (p *ClassPlan) slotByID(id string) int {
	for i := range p.Classes {
		if p.Classes[i].ID == id {
			return i
		}
	}
	return -1
}
