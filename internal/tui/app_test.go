package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ziyi127/TimeNest-sub002/internal/engine"
	"github.com/ziyi127/TimeNest-sub002/internal/schedule"
	"github.com/ziyi127/TimeNest-sub002/internal/testutil"
)

func schoolDay(hhmm string) time.Time {
	tod := schedule.MustTimeOfDay(hhmm)
	return time.Date(2025, 9, 1, int(tod)/3600, int(tod)/60%60, int(tod)%60, 0, time.Local)
}

func modelAt(t *testing.T, hhmm string) Model {
	t.Helper()
	store := &testutil.MemoryStore{
		PlanList:    []*schedule.ClassPlan{testutil.MorningPlan(time.Monday)},
		LayoutList:  []*schedule.TimeLayout{testutil.MorningLayout()},
		SubjectList: testutil.Subjects(),
	}
	clk := testutil.NewFixedClock(schoolDay(hhmm))
	eng := engine.New(clk, store, store, engine.Options{TermStart: schoolDay("00:00")}, nil)
	eng.Tick()

	m := newModel(Options{Engine: eng, Subjects: store, Version: "test"})
	m.snap = eng.Snapshot()
	return m
}

func TestView_OnClass(t *testing.T) {
	m := modelAt(t, "08:20")
	view := m.View()

	if !strings.Contains(view, "Mathematics") {
		t.Errorf("expected current subject in view:\n%s", view)
	}
	if !strings.Contains(view, "25:00") {
		t.Errorf("expected countdown until class end in view:\n%s", view)
	}
	if !strings.Contains(view, "until class ends") {
		t.Errorf("expected class countdown label in view:\n%s", view)
	}
}

func TestView_Breaking(t *testing.T) {
	m := modelAt(t, "08:50")
	view := m.View()

	if !strings.Contains(view, "Recess") {
		t.Errorf("expected break label in view:\n%s", view)
	}
	if !strings.Contains(view, "05:00") {
		t.Errorf("expected countdown until break end in view:\n%s", view)
	}
	if !strings.Contains(view, "English") {
		t.Errorf("expected next subject in view:\n%s", view)
	}
}

func TestView_AfterSchool(t *testing.T) {
	m := modelAt(t, "10:00")
	view := m.View()

	if !strings.Contains(view, "School's out") {
		t.Errorf("expected after-school banner in view:\n%s", view)
	}
}

func TestView_NoPlan(t *testing.T) {
	store := &testutil.MemoryStore{}
	clk := testutil.NewFixedClock(schoolDay("08:20"))
	eng := engine.New(clk, store, store, engine.Options{}, nil)
	eng.Tick()

	m := newModel(Options{Engine: eng, Subjects: store, Version: "test"})
	m.snap = eng.Snapshot()

	if !strings.Contains(m.View(), "No schedule today") {
		t.Errorf("expected no-schedule banner in view:\n%s", m.View())
	}
}

func TestView_TimetableListsAllRows(t *testing.T) {
	m := modelAt(t, "08:20")
	view := m.View()

	for _, want := range []string{"08:00–08:45", "08:45–08:55", "08:55–09:40", "▶"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in timetable view:\n%s", want, view)
		}
	}
}

func TestUpdate_QuitKeys(t *testing.T) {
	m := modelAt(t, "08:20")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command for q")
	}
	if msg := cmd(); msg != (tea.QuitMsg{}) {
		t.Errorf("expected tea.QuitMsg, got %T", msg)
	}
}

func TestUpdate_RefreshPullsLatestSnapshot(t *testing.T) {
	m := modelAt(t, "08:20")
	before := m.snap

	updated, cmd := m.Update(refreshMsg(time.Now()))
	m = updated.(Model)

	// The engine has not ticked again, so the snapshot pointer is unchanged.
	if m.snap != before {
		t.Error("refresh should reload the engine snapshot")
	}
	if cmd == nil {
		t.Error("refresh should schedule the next refresh")
	}
}
