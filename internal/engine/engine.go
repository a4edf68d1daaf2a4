// Package engine turns static timetable data and dynamic overrides into a
// continuously updated, edge-triggered lesson state.
//
// A single goroutine owns the tick loop. Each tick builds a fresh Snapshot
// and publishes it via an atomic pointer swap; consumers read the latest
// snapshot and subscribe to transition events. The tick path never returns an
// error: malformed configuration is repaired defensively and logged, because
// a crashed scheduler is worse than a degraded one.
package engine

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ziyi127/TimeNest-sub002/internal/clock"
	"github.com/ziyi127/TimeNest-sub002/internal/schedule"
)

// PlanStore supplies the engine's static inputs. Lookups are in-memory; no
// method may block.
type PlanStore interface {
	Plans() []*schedule.ClassPlan
	Layout(id string) *schedule.TimeLayout
	Subject(id string) (schedule.Subject, bool)
}

// TempChangeStore supplies the current temp changes.
type TempChangeStore interface {
	TempChanges() []schedule.TempChange
}

// ConsumedFunc receives the IDs of temp changes that applied for the first
// time this tick. Persisting the used flag is the caller's responsibility.
type ConsumedFunc func(ids []string)

// Options configure an Engine.
type Options struct {
	// TickInterval is the cadence of the tick loop. The default of 50ms is
	// frequent enough that second-granularity displays never visibly lag.
	TickInterval time.Duration

	// PrepareLead is how long before the next class the engine enters
	// PrepareOnClass during a gap.
	PrepareLead time.Duration

	// TermStart anchors week parity for plan selection.
	TermStart time.Time
}

// DefaultTickInterval is the reference tick cadence.
const DefaultTickInterval = 50 * time.Millisecond

// DefaultPrepareLead is the default PrepareOnClass lead time.
const DefaultPrepareLead = time.Minute

// Engine is the schedule state machine. All dependencies are injected at
// construction; there is no ambient global state.
type Engine struct {
	clock     clock.Clock
	plans     PlanStore
	temp      TempChangeStore
	selector  *schedule.Selector
	overrides *schedule.OverrideResolver
	opts      Options
	logger    *slog.Logger

	snapshot   atomic.Pointer[Snapshot]
	onConsumed ConsumedFunc

	mu   sync.Mutex
	subs map[EventKind][]chan Event

	// repaired tracks plans already warned about, so slot-count repair logs
	// once per plan instead of once per tick.
	repaired map[string]bool
}

// New creates an Engine. The initial published state is None.
func New(c clock.Clock, plans PlanStore, temp TempChangeStore, opts Options, logger *slog.Logger) *Engine {
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	if opts.PrepareLead <= 0 {
		opts.PrepareLead = DefaultPrepareLead
	}
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{
		clock:     c,
		plans:     plans,
		temp:      temp,
		selector:  &schedule.Selector{TermStart: opts.TermStart},
		overrides: &schedule.OverrideResolver{Logger: logger},
		opts:      opts,
		logger:    logger,
		subs:      make(map[EventKind][]chan Event),
		repaired:  make(map[string]bool),
	}
	e.snapshot.Store(&Snapshot{State: StateNone})
	return e
}

// OnConsumed registers the callback invoked with newly consumed temp change
// IDs. Call before Run; there is only one callback.
func (e *Engine) OnConsumed(fn ConsumedFunc) {
	e.onConsumed = fn
}

// Snapshot returns the latest published state. The returned value is
// immutable; callers must not modify it.
func (e *Engine) Snapshot() *Snapshot {
	return e.snapshot.Load()
}

// Run drives the tick loop until ctx is cancelled. It ticks once
// immediately so consumers see a resolved state without waiting a full
// interval.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(e.opts.TickInterval)
	defer ticker.Stop()

	e.Tick()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.Tick()
		}
	}
}

// Tick resolves the current lesson state, publishes a fresh snapshot, and
// emits transition events when the state changed. Only the Run goroutine (or
// a test driving the engine manually) may call Tick.
func (e *Engine) Tick() {
	now := e.clock.Now()
	snap, consumed := e.resolve(now)

	prev := e.snapshot.Load()
	e.snapshot.Store(snap)

	if len(consumed) > 0 && e.onConsumed != nil {
		e.onConsumed(consumed)
	}

	if snap.State == prev.State {
		return
	}

	switch snap.State {
	case StateOnClass:
		e.emit(Event{Kind: EventOnClass, State: snap.State, At: now, Snapshot: snap})
	case StateBreaking:
		e.emit(Event{Kind: EventOnBreakingTime, State: snap.State, At: now, Snapshot: snap})
	case StateAfterSchool:
		e.emit(Event{Kind: EventOnAfterSchool, State: snap.State, At: now, Snapshot: snap})
	}
	e.emit(Event{Kind: EventStateChanged, State: snap.State, At: now, Snapshot: snap})
}

// resolve computes the snapshot for now. It never fails; configuration
// inconsistencies degrade to empty subjects or StateNone.
func (e *Engine) resolve(now time.Time) (*Snapshot, []string) {
	snap := &Snapshot{State: StateNone, Now: now}

	plan := e.selector.SelectPlan(e.plans.Plans(), now)
	if plan == nil {
		// No schedule today. Not AfterSchool: "no plan" and "plan finished"
		// are distinct.
		return snap, nil
	}

	effective, consumed := e.overrides.Apply(plan, e.lookupPlan, e.temp.TempChanges(), now)
	snap.PlanLoaded = true
	snap.Plan = effective

	layout := e.plans.Layout(effective.TimeLayoutID)
	if layout == nil {
		if !e.repaired[effective.ID] {
			e.repaired[effective.ID] = true
			e.logger.Warn("plan references unknown layout",
				"plan", effective.ID, "layout", effective.TimeLayoutID)
		}
		return snap, consumed
	}
	snap.Layout = layout

	e.reconcile(effective, layout)

	res := layout.Resolve(now)
	snap.CurrentItem = res.Current
	snap.NextClassItem = res.NextClass
	snap.NextBreakItem = res.NextBreak

	tod := schedule.TimeOfDayFrom(now)

	switch {
	case res.Current != nil && res.Current.Kind == schedule.KindClass:
		snap.State = StateOnClass
		snap.CurrentSubject = e.subjectAt(effective, layout, res.Current)
		snap.LessonConfirmed = true
	case res.Current != nil && res.Current.Kind == schedule.KindBreak:
		snap.State = StateBreaking
		snap.CurrentSubject = schedule.BreakingSubject(res.Current.BreakLabel)
	case res.Current == nil && res.NextClass == nil && res.NextBreak == nil:
		snap.State = StateAfterSchool
		snap.CurrentSubject = schedule.EmptySubject()
	default:
		// Gap before a future item.
		snap.State = StateNone
		snap.CurrentSubject = schedule.EmptySubject()
		if res.NextClass != nil && res.NextClass.Start.Sub(tod) <= e.opts.PrepareLead {
			snap.State = StatePrepareOnClass
		}
	}

	if res.NextClass != nil {
		snap.NextSubject = e.subjectAt(effective, layout, res.NextClass)
	} else {
		snap.NextSubject = schedule.EmptySubject()
	}

	// Remaining durations, clamped to zero. Consumers format these without
	// further checks, so negatives must never escape.
	if snap.State == StateOnClass {
		end := res.Current.End
		if res.NextBreak != nil {
			end = res.NextBreak.Start
		}
		snap.TimeUntilClassEnds = clamp(end.Sub(tod))
	} else if res.NextClass != nil {
		snap.TimeUntilBreakEnds = clamp(res.NextClass.Start.Sub(tod))
	}

	return snap, consumed
}

// reconcile repairs a plan whose class list diverges from the layout's
// class-kind count: missing slots become disabled placeholders, extras are
// truncated. The plan here is already a copy, never the stored one.
func (e *Engine) reconcile(plan *schedule.ClassPlan, layout *schedule.TimeLayout) {
	want := layout.ClassCount()
	have := len(plan.Classes)
	if want == have {
		return
	}

	if !e.repaired[plan.ID] {
		e.repaired[plan.ID] = true
		e.logger.Warn("plan slot count does not match layout, repairing",
			"plan", plan.ID, "have", have, "want", want)
	}

	if have > want {
		plan.Classes = plan.Classes[:want]
		return
	}
	for i := have; i < want; i++ {
		plan.Classes = append(plan.Classes, schedule.ClassInfo{
			SubjectID: schedule.SubjectIDEmpty,
			Index:     i,
			Enabled:   false,
		})
	}
}

// subjectAt resolves the subject shown for a class-kind layout item, falling
// back to the empty sentinel for disabled slots and unknown subject IDs.
func (e *Engine) subjectAt(plan *schedule.ClassPlan, layout *schedule.TimeLayout, item *schedule.TimeLayoutItem) schedule.Subject {
	idx := layout.ClassIndexOf(item)
	if idx < 0 || idx >= len(plan.Classes) {
		return schedule.EmptySubject()
	}
	slot := plan.Classes[idx]
	if !slot.Enabled {
		return schedule.EmptySubject()
	}
	subj, ok := e.plans.Subject(slot.SubjectID)
	if !ok {
		if !e.repaired[plan.ID+"/"+slot.SubjectID] {
			e.repaired[plan.ID+"/"+slot.SubjectID] = true
			e.logger.Warn("slot references unknown subject",
				"plan", plan.ID, "subject", slot.SubjectID)
		}
		return schedule.EmptySubject()
	}
	return subj
}

// lookupPlan finds a stored plan by ID for overlay diffing.
func (e *Engine) lookupPlan(id string) *schedule.ClassPlan {
	for _, p := range e.plans.Plans() {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func clamp(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
