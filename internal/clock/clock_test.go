package clock

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

// scriptedSource returns the given times in order, repeating the last one.
func scriptedSource(times ...time.Time) func() time.Time {
	i := 0
	return func() time.Time {
		t := times[i]
		if i < len(times)-1 {
			i++
		}
		return t
	}
}

func TestNow_Monotonic(t *testing.T) {
	base := time.Date(2025, 9, 1, 8, 0, 0, 0, time.Local)
	c := NewSystem(nil)
	c.read = scriptedSource(
		base,
		base.Add(time.Second),
		base.Add(-30*time.Second), // backward jump
		base.Add(-29*time.Second), // still behind
		base.Add(2*time.Second),   // caught up
	)

	var got []time.Time
	for i := 0; i < 5; i++ {
		got = append(got, c.Now())
	}

	for i := 1; i < len(got); i++ {
		if got[i].Before(got[i-1]) {
			t.Fatalf("Now() went backwards at call %d: %v -> %v", i, got[i-1], got[i])
		}
	}
	if !got[2].Equal(base.Add(time.Second)) {
		t.Errorf("expected clamp to last observed time, got %v", got[2])
	}
	if !got[4].Equal(base.Add(2 * time.Second)) {
		t.Errorf("expected clock to resume after catching up, got %v", got[4])
	}
}

func TestNow_OffsetsAppliedAfterClamp(t *testing.T) {
	base := time.Date(2025, 9, 1, 8, 0, 0, 0, time.Local)
	c := NewSystem(nil)
	c.read = scriptedSource(base, base.Add(-time.Minute))

	c.SetOffset(10 * time.Second)
	c.SetDebugOffset(5 * time.Second)

	first := c.Now()
	if !first.Equal(base.Add(15 * time.Second)) {
		t.Errorf("offset not applied: got %v", first)
	}

	// The backward read is clamped to base, then offsets are added.
	second := c.Now()
	if !second.Equal(base.Add(15 * time.Second)) {
		t.Errorf("expected clamped time with offsets, got %v", second)
	}
}

func TestSetOffset_AffectsNextCallOnly(t *testing.T) {
	base := time.Date(2025, 9, 1, 8, 0, 0, 0, time.Local)
	c := NewSystem(nil)
	c.read = scriptedSource(base)

	before := c.Now()
	c.SetOffset(time.Hour)
	after := c.Now()

	if !before.Equal(base) {
		t.Errorf("unexpected time before offset: %v", before)
	}
	if !after.Equal(base.Add(time.Hour)) {
		t.Errorf("unexpected time after offset: %v", after)
	}
}

func TestNow_LogsAgainOnDeeperJump(t *testing.T) {
	base := time.Date(2025, 9, 1, 8, 0, 0, 0, time.Local)

	var buf bytes.Buffer
	c := NewSystem(slog.New(slog.NewTextHandler(&buf, nil)))
	c.read = scriptedSource(
		base,
		base.Add(time.Second),
		base.Add(-30*time.Second), // first jump: logs
		base.Add(-29*time.Second), // same episode, not deeper: silent
		base.Add(-60*time.Second), // deeper jump: logs again
		base.Add(2*time.Second),   // caught up
		base.Add(-5*time.Second),  // fresh episode: logs
	)

	for i := 0; i < 7; i++ {
		c.Now()
	}

	if got := strings.Count(buf.String(), "backward clock jump"); got != 3 {
		t.Errorf("expected 3 jump warnings, got %d:\n%s", got, buf.String())
	}
}
