package profile

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziyi127/TimeNest-sub002/internal/schedule"
)

func writeProfile(t *testing.T, path string, p *Profile) {
	t.Helper()
	require.NoError(t, write(path, p))
}

func sampleProfile() *Profile {
	return &Profile{
		Subjects: []schedule.Subject{
			{ID: "math", Name: "Mathematics", Initial: "M"},
		},
		TimeLayouts: []schedule.TimeLayout{
			{
				ID:   "layout-1",
				Name: "Morning",
				Items: []schedule.TimeLayoutItem{
					{Start: schedule.MustTimeOfDay("08:00"), End: schedule.MustTimeOfDay("08:45"), Kind: schedule.KindClass},
				},
			},
		},
		Plans: []schedule.ClassPlan{
			{
				ID:           "plan-1",
				Name:         "Monday",
				TimeLayoutID: "layout-1",
				Enabled:      true,
				Rule:         schedule.PlanRule{Weekday: time.Monday, WeekParity: schedule.ParityAny},
				Classes: []schedule.ClassInfo{
					{ID: "slot-0", SubjectID: "math", Index: 0, Enabled: true},
				},
			},
		},
		TempChanges: []schedule.TempChange{
			{ID: "tc-1", OriginalSlotID: "slot-0", NewSubjectID: "math", ChangeDate: schedule.MustDate("2025-09-01")},
		},
	}
}

func TestLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	writeProfile(t, path, sampleProfile())

	store, err := Load(path)
	require.NoError(t, err)

	plans := store.Plans()
	require.Len(t, plans, 1)
	assert.Equal(t, "plan-1", plans[0].ID)

	layout := store.Layout("layout-1")
	require.NotNil(t, layout)
	assert.Equal(t, schedule.MustTimeOfDay("08:00"), layout.Items[0].Start)
	assert.Nil(t, store.Layout("missing"))

	subj, ok := store.Subject("math")
	require.True(t, ok)
	assert.Equal(t, "Mathematics", subj.Name)
	_, ok = store.Subject("missing")
	assert.False(t, ok)

	changes := store.TempChanges()
	require.Len(t, changes, 1)
	assert.Equal(t, schedule.MustDate("2025-09-01"), changes[0].ChangeDate)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoad_MalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	require.NoError(t, os.WriteFile(path, []byte("{nope"), 0644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse profile")
}

func TestLoadOrCreate_WritesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "profile.json")

	store, err := LoadOrCreate(path)
	require.NoError(t, err)

	assert.NotEmpty(t, store.Plans())
	_, err = os.Stat(path)
	assert.NoError(t, err, "default profile should exist on disk")

	// Every weekday plan references the layout and has full slots.
	layout := store.Layout(store.Plans()[0].TimeLayoutID)
	require.NotNil(t, layout)
	for _, p := range store.Plans() {
		assert.Len(t, p.Classes, layout.ClassCount())
	}
}

func TestMarkConsumed_PersistsUsedFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	writeProfile(t, path, sampleProfile())

	store, err := Load(path)
	require.NoError(t, err)

	require.NoError(t, store.MarkConsumed([]string{"tc-1"}))
	assert.True(t, store.TempChanges()[0].Used)

	// A fresh load sees the flag too.
	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.True(t, reloaded.TempChanges()[0].Used)
}

func TestReload_SwapsProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	writeProfile(t, path, sampleProfile())

	store, err := Load(path)
	require.NoError(t, err)

	updated := sampleProfile()
	updated.Plans[0].Name = "Edited"
	writeProfile(t, path, updated)

	require.NoError(t, store.Reload())
	assert.Equal(t, "Edited", store.Plans()[0].Name)
}

func TestWatch_ReloadsOnRewrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	writeProfile(t, path, sampleProfile())

	store, err := Load(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = Watch(ctx, store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	}()

	// Watch registers its fsnotify watch asynchronously; give it a moment
	// so the rewrite below is not missed on single-CPU machines.
	time.Sleep(100 * time.Millisecond)

	updated := sampleProfile()
	updated.Plans[0].Name = "Rewritten"
	writeProfile(t, path, updated)

	require.Eventually(t, func() bool {
		return store.Plans()[0].Name == "Rewritten"
	}, 3*time.Second, 25*time.Millisecond)

	cancel()
	<-done
}

func TestWatch_CancelWithPendingDebounce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	writeProfile(t, path, sampleProfile())

	store, err := Load(path)
	require.NoError(t, err)
	before := store.Plans()[0].Name

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = Watch(ctx, store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	}()

	// Arm the debounce timer, then cancel before it fires.
	updated := sampleProfile()
	updated.Plans[0].Name = "Rewritten"
	writeProfile(t, path, updated)
	cancel()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}

	// The pending timer must not reload the store after Watch returned.
	time.Sleep(2 * debounce)
	require.Equal(t, before, store.Plans()[0].Name)
}
