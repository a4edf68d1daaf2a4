package engine

import (
	"time"

	"github.com/ziyi127/TimeNest-sub002/internal/schedule"
)

// LessonState is the discrete answer to "what is happening right now".
type LessonState int

const (
	// StateNone is the initial state, the state when no plan is loaded, and
	// the gap before the first item of the day.
	StateNone LessonState = iota
	// StateOnClass means now falls inside a class-kind item.
	StateOnClass
	// StateBreaking means now falls inside a break-kind item.
	StateBreaking
	// StateAfterSchool means today's plan has fully elapsed. Distinct from
	// StateNone: "no plan" never infers AfterSchool.
	StateAfterSchool
	// StatePrepareOnClass means the next class starts within the configured
	// prepare lead and there is no current item.
	StatePrepareOnClass
)

func (s LessonState) String() string {
	switch s {
	case StateNone:
		return "None"
	case StateOnClass:
		return "OnClass"
	case StateBreaking:
		return "Breaking"
	case StateAfterSchool:
		return "AfterSchool"
	case StatePrepareOnClass:
		return "PrepareOnClass"
	default:
		return "Unknown"
	}
}

// Snapshot is the engine's published view of the current lesson state. It is
// built fresh on every tick and swapped in wholesale; consumers must treat a
// snapshot as immutable and never observe a mix of old and new fields.
type Snapshot struct {
	State LessonState

	CurrentSubject schedule.Subject
	NextSubject    schedule.Subject

	CurrentItem   *schedule.TimeLayoutItem
	NextClassItem *schedule.TimeLayoutItem
	NextBreakItem *schedule.TimeLayoutItem

	// TimeUntilClassEnds and TimeUntilBreakEnds are clamped to zero; a
	// negative duration never reaches consumers.
	TimeUntilClassEnds time.Duration
	TimeUntilBreakEnds time.Duration

	// Plan and Layout are the effective plan for the day (after overrides)
	// and its layout, for consumers that render the whole timetable. Nil
	// when no plan is loaded.
	Plan   *schedule.ClassPlan
	Layout *schedule.TimeLayout

	LessonConfirmed bool
	PlanLoaded      bool

	Now time.Time
}
