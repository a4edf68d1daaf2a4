// Package tui renders the live timetable overlay. It is a pure consumer of
// the engine: it reads published snapshots and subscribes to transition
// events, but contains no scheduling logic of its own.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ziyi127/TimeNest-sub002/internal/countdown"
	"github.com/ziyi127/TimeNest-sub002/internal/engine"
	"github.com/ziyi127/TimeNest-sub002/internal/schedule"
	"github.com/ziyi127/TimeNest-sub002/internal/tui/styles"
)

// Options configure the overlay.
type Options struct {
	Engine   *engine.Engine
	Subjects engine.PlanStore
	Version  string
}

// Run starts the overlay and blocks until the user quits.
func Run(opts Options) error {
	p := tea.NewProgram(newModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// refreshMsg drives the once-a-second repaint.
type refreshMsg time.Time

// transitionMsg carries an engine state transition into the update loop.
type transitionMsg engine.Event

// Model is the overlay's bubbletea model.
type Model struct {
	eng      *engine.Engine
	subjects engine.PlanStore
	version  string

	snap   *engine.Snapshot
	events <-chan engine.Event

	spinner  spinner.Model
	progress progress.Model

	lastTransition string

	width  int
	height int
}

func newModel(opts Options) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		eng:      opts.Engine,
		subjects: opts.Subjects,
		version:  opts.Version,
		snap:     opts.Engine.Snapshot(),
		events:   opts.Engine.Subscribe(engine.EventStateChanged),
		spinner:  sp,
		progress: progress.New(progress.WithDefaultGradient()),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, refreshTick(), m.waitForTransition())
}

func refreshTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}

// waitForTransition blocks on the engine's StateChanged stream.
func (m Model) waitForTransition() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return nil
		}
		return transitionMsg(ev)
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(msg.Width-8, 50)

	case refreshMsg:
		m.snap = m.eng.Snapshot()
		return m, refreshTick()

	case transitionMsg:
		m.snap = msg.Snapshot
		m.lastTransition = fmt.Sprintf("%s at %s",
			msg.State, msg.At.Format("15:04:05"))
		return m, m.waitForTransition()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	snap := m.snap
	if snap == nil {
		return "loading..."
	}

	var b strings.Builder

	header := fmt.Sprintf("TimeNest %s — %s",
		m.version, snap.Now.Format("Mon Jan 2 15:04:05"))
	b.WriteString(styles.TitleStyle.Render(header))
	b.WriteString("\n\n")

	b.WriteString(m.bannerView(snap))
	b.WriteString("\n")

	if rows := m.timetableView(snap); rows != "" {
		b.WriteString("\n")
		b.WriteString(rows)
	}

	b.WriteString("\n")
	hints := []string{"q quit"}
	if m.lastTransition != "" {
		hints = append(hints, m.lastTransition)
	}
	b.WriteString(styles.StatusBarStyle.Render(strings.Join(hints, " • ")))

	return styles.BoxStyle.Render(b.String())
}

// bannerView renders the state-dependent top section.
func (m Model) bannerView(snap *engine.Snapshot) string {
	switch snap.State {
	case engine.StateOnClass:
		line := styles.OnClassStyle.Render(m.spinner.View() + " " + snap.CurrentSubject.Name)
		if snap.CurrentSubject.TeacherName != "" {
			line += styles.SubtleStyle.Render(" · " + snap.CurrentSubject.TeacherName)
		}
		remaining := styles.CountdownStyle.Render(countdown.Format(snap.TimeUntilClassEnds))
		return fmt.Sprintf("%s\n%s %s\n%s",
			line,
			remaining, styles.SubtleStyle.Render("until class ends"),
			m.progress.ViewAs(classProgress(snap)))

	case engine.StateBreaking:
		line := styles.BreakStyle.Render(snap.CurrentSubject.Name)
		next := nextClassLine(snap)
		remaining := styles.CountdownStyle.Render(countdown.Format(snap.TimeUntilBreakEnds))
		return fmt.Sprintf("%s\n%s %s\n%s",
			line, remaining, styles.SubtleStyle.Render("until break ends"), next)

	case engine.StatePrepareOnClass:
		remaining := styles.CountdownStyle.Render(countdown.Format(snap.TimeUntilBreakEnds))
		return fmt.Sprintf("%s\n%s %s",
			styles.BreakStyle.Render("Class is about to start"),
			remaining, styles.SubtleStyle.Render("to go — "+nextClassLine(snap)))

	case engine.StateAfterSchool:
		return styles.OnClassStyle.Render("School's out for today")

	default:
		if !snap.PlanLoaded {
			return styles.SubtleStyle.Render("No schedule today")
		}
		return fmt.Sprintf("%s\n%s",
			styles.SubtleStyle.Render("Nothing scheduled right now"),
			nextClassLine(snap))
	}
}

// timetableView renders today's layout with the active row and substituted
// slots highlighted.
func (m Model) timetableView(snap *engine.Snapshot) string {
	if snap.Layout == nil || snap.Plan == nil {
		return ""
	}

	var rows []string
	for i := range snap.Layout.Items {
		item := &snap.Layout.Items[i]
		var label string
		var changed bool

		switch item.Kind {
		case schedule.KindClass:
			idx := snap.Layout.ClassIndexOf(item)
			label, changed = m.classLabel(snap.Plan, idx)
		case schedule.KindBreak:
			label = item.BreakLabel
			if label == "" {
				label = "Break"
			}
			label = styles.SubtleStyle.Render(label)
		default:
			continue
		}

		row := fmt.Sprintf("%s–%s  %s", clockFace(item.Start), clockFace(item.End), label)
		switch {
		case item == snap.CurrentItem:
			row = styles.CurrentRowStyle.Render("▶ " + row)
		case changed:
			row = styles.ChangedStyle.Render("  " + row + " *")
		default:
			row = "  " + row
		}
		rows = append(rows, row)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// classLabel resolves the display name for a plan slot, mirroring the
// engine's fallbacks.
func (m Model) classLabel(plan *schedule.ClassPlan, idx int) (string, bool) {
	if idx < 0 || idx >= len(plan.Classes) {
		return schedule.EmptySubject().Name, false
	}
	slot := plan.Classes[idx]
	if !slot.Enabled {
		return schedule.EmptySubject().Name, false
	}
	subj, ok := m.subjects.Subject(slot.SubjectID)
	if !ok {
		return schedule.EmptySubject().Name, slot.Changed
	}
	return subj.Name, slot.Changed
}

func nextClassLine(snap *engine.Snapshot) string {
	if snap.NextClassItem == nil {
		return ""
	}
	return styles.SubtleStyle.Render(fmt.Sprintf("next: %s at %s",
		snap.NextSubject.Name, clockFace(snap.NextClassItem.Start)))
}

// classProgress returns how far the current class has advanced, 0..1.
func classProgress(snap *engine.Snapshot) float64 {
	if snap.CurrentItem == nil {
		return 0
	}
	total := snap.CurrentItem.End.Sub(snap.CurrentItem.Start)
	if total <= 0 {
		return 1
	}
	elapsed := schedule.TimeOfDayFrom(snap.Now).Sub(snap.CurrentItem.Start)
	p := float64(elapsed) / float64(total)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// clockFace trims seconds off a time of day for display.
func clockFace(t schedule.TimeOfDay) string {
	return t.String()[:5]
}
