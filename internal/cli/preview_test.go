package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ziyi127/TimeNest-sub002/internal/engine"
	"github.com/ziyi127/TimeNest-sub002/internal/profile"
	"github.com/ziyi127/TimeNest-sub002/internal/schedule"
	"github.com/ziyi127/TimeNest-sub002/internal/testutil"
)

// writeFixtureConfig lays down a config and matching profile in dir and
// points the package config path at it for the duration of the test.
func writeFixtureConfig(t *testing.T, dir string) {
	t.Helper()

	p := &profile.Profile{
		Subjects:    testutil.Subjects(),
		TimeLayouts: []schedule.TimeLayout{*testutil.MorningLayout()},
		Plans:       []schedule.ClassPlan{*testutil.MorningPlan(time.Monday)},
	}
	data, err := json.Marshal(p)
	require.NoError(t, err)

	profilePath := filepath.Join(dir, "profile.json")
	require.NoError(t, os.WriteFile(profilePath, data, 0o644))

	cfgPath := filepath.Join(dir, "timenest.yaml")
	cfg := fmt.Sprintf("profile_path: %q\nengine:\n  term_start: \"2025-09-01\"\n", profilePath)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	old := configPath
	configPath = cfgPath
	t.Cleanup(func() { configPath = old })
}

func TestResolveAt_ReturnsSnapshotAndStore(t *testing.T) {
	writeFixtureConfig(t, t.TempDir())

	// Monday 2025-09-01 08:30, mid first class.
	snap, store, err := resolveAt(time.Date(2025, time.September, 1, 8, 30, 0, 0, time.Local))
	require.NoError(t, err)
	require.NotNil(t, store)

	require.Equal(t, engine.StateOnClass, snap.State)
	require.Equal(t, "Mathematics", snap.CurrentSubject.Name)

	// The returned store serves subject lookups; callers must not need to
	// re-read the profile.
	subj, ok := store.Subject("eng")
	require.True(t, ok)
	require.Equal(t, "English", subj.Name)
	require.Equal(t, "Mathematics", subjectLabel(store, snap.Plan, 0))
}
