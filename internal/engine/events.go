package engine

import "time"

// EventKind identifies a transition event stream.
type EventKind int

const (
	// EventOnClass fires when the state transitions into OnClass.
	EventOnClass EventKind = iota
	// EventOnBreakingTime fires when the state transitions into Breaking.
	EventOnBreakingTime
	// EventOnAfterSchool fires when the state transitions into AfterSchool.
	EventOnAfterSchool
	// EventStateChanged fires on every state transition, after the specific
	// event above when one applies.
	EventStateChanged
)

func (k EventKind) String() string {
	switch k {
	case EventOnClass:
		return "OnClass"
	case EventOnBreakingTime:
		return "OnBreakingTime"
	case EventOnAfterSchool:
		return "OnAfterSchool"
	case EventStateChanged:
		return "StateChanged"
	default:
		return "Unknown"
	}
}

// Event is an edge-triggered state transition notification. Events fire only
// when the resolved state differs from the previously published one, never
// once per tick.
type Event struct {
	Kind     EventKind
	State    LessonState
	At       time.Time
	Snapshot *Snapshot
}

const subscriberBuffer = 16

// Subscribe returns a receive-only channel delivering events of the given
// kind. Each subscriber sees its events in tick order; ordering across
// subscribers is unspecified. A subscriber that stops draining its channel
// loses events rather than blocking the tick loop.
func (e *Engine) Subscribe(kind EventKind) <-chan Event {
	ch := make(chan Event, subscriberBuffer)
	e.mu.Lock()
	e.subs[kind] = append(e.subs[kind], ch)
	e.mu.Unlock()
	return ch
}

// emit fans an event out to every subscriber of its kind without blocking.
func (e *Engine) emit(ev Event) {
	e.mu.Lock()
	subs := e.subs[ev.Kind]
	e.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- ev:
		default:
			// Subscriber is not draining; drop rather than stall the tick.
		}
	}
}
