// Package testutil provides fixed clocks and in-memory fixtures for tests.
package testutil

import (
	"sync"
	"time"

	"github.com/ziyi127/TimeNest-sub002/internal/schedule"
)

// FixedClock returns a settable, advanceable time. Safe for concurrent use.
type FixedClock struct {
	mu sync.Mutex
	t  time.Time
}

// NewFixedClock creates a FixedClock pinned at t.
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{t: t}
}

// Now returns the pinned time.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// Advance moves the pinned time forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// Set pins the clock to t.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

// MemoryStore is an in-memory plan/subject/layout/temp-change store
// satisfying the engine's store interfaces.
type MemoryStore struct {
	mu          sync.Mutex
	PlanList    []*schedule.ClassPlan
	LayoutList  []*schedule.TimeLayout
	SubjectList []schedule.Subject
	Changes     []schedule.TempChange
}

// Plans implements engine.PlanStore.
func (s *MemoryStore) Plans() []*schedule.ClassPlan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.PlanList
}

// Layout implements engine.PlanStore.
func (s *MemoryStore) Layout(id string) *schedule.TimeLayout {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.LayoutList {
		if l.ID == id {
			return l
		}
	}
	return nil
}

// Subject implements engine.PlanStore.
func (s *MemoryStore) Subject(id string) (schedule.Subject, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, subj := range s.SubjectList {
		if subj.ID == id {
			return subj, true
		}
	}
	return schedule.Subject{}, false
}

// TempChanges implements engine.TempChangeStore.
func (s *MemoryStore) TempChanges() []schedule.TempChange {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]schedule.TempChange, len(s.Changes))
	copy(out, s.Changes)
	return out
}

// MarkUsed flips the used flag on the given temp change IDs.
func (s *MemoryStore) MarkUsed(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		for i := range s.Changes {
			if s.Changes[i].ID == id {
				s.Changes[i].Used = true
			}
		}
	}
}

// MorningLayout returns the reference three-item layout used across tests:
// 08:00-08:45 class, 08:45-08:55 break, 08:55-09:40 class.
func MorningLayout() *schedule.TimeLayout {
	return &schedule.TimeLayout{
		ID:   "layout-morning",
		Name: "Morning",
		Items: []schedule.TimeLayoutItem{
			{Start: schedule.MustTimeOfDay("08:00"), End: schedule.MustTimeOfDay("08:45"), Kind: schedule.KindClass},
			{Start: schedule.MustTimeOfDay("08:45"), End: schedule.MustTimeOfDay("08:55"), Kind: schedule.KindBreak, BreakLabel: "Recess"},
			{Start: schedule.MustTimeOfDay("08:55"), End: schedule.MustTimeOfDay("09:40"), Kind: schedule.KindClass},
		},
	}
}

// MorningPlan returns a plan for the given weekday assigning math and eng to
// the morning layout's two class slots.
func MorningPlan(weekday time.Weekday) *schedule.ClassPlan {
	return &schedule.ClassPlan{
		ID:           "plan-morning",
		Name:         "Morning plan",
		TimeLayoutID: "layout-morning",
		Enabled:      true,
		Rule:         schedule.PlanRule{Weekday: weekday, WeekParity: schedule.ParityAny},
		Classes: []schedule.ClassInfo{
			{ID: "slot-0", SubjectID: "math", Index: 0, Enabled: true},
			{ID: "slot-1", SubjectID: "eng", Index: 1, Enabled: true},
		},
	}
}

// Subjects returns the subject table matching MorningPlan.
func Subjects() []schedule.Subject {
	return []schedule.Subject{
		{ID: "math", Name: "Mathematics", Initial: "M", TeacherName: "Ms. Chen"},
		{ID: "eng", Name: "English", Initial: "E", TeacherName: "Mr. Park"},
		{ID: "sub", Name: "Substitute", Initial: "S", TeacherName: "Ms. Ortiz"},
	}
}
