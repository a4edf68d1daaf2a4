package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziyi127/TimeNest-sub002/internal/config"
	"github.com/ziyi127/TimeNest-sub002/internal/countdown"
	"github.com/ziyi127/TimeNest-sub002/internal/engine"
	"github.com/ziyi127/TimeNest-sub002/internal/logging"
	"github.com/ziyi127/TimeNest-sub002/internal/profile"
)

var previewAt string

func init() {
	previewCmd.Flags().StringVar(&previewAt, "at", "", `Instant to resolve, "2006-01-02 15:04" (default: now)`)
}

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Resolve the lesson state for an instant without starting the overlay",
	RunE:  runPreview,
}

// fixedClock pins the engine to the previewed instant.
type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func runPreview(cmd *cobra.Command, args []string) error {
	at := time.Now()
	if previewAt != "" {
		parsed, err := time.ParseInLocation("2006-01-02 15:04", previewAt, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --at value %q, want \"2006-01-02 15:04\"", previewAt)
		}
		at = parsed
	}

	snap, _, err := resolveAt(at)
	if err != nil {
		return err
	}

	fmt.Printf("At %s:\n", at.Format("Mon Jan 2 15:04"))
	fmt.Printf("  state: %s\n", snap.State)

	switch snap.State {
	case engine.StateOnClass:
		fmt.Printf("  current: %s", snap.CurrentSubject.Name)
		if snap.CurrentSubject.TeacherName != "" {
			fmt.Printf(" (%s)", snap.CurrentSubject.TeacherName)
		}
		fmt.Printf("\n  class ends in: %s\n", countdown.Format(snap.TimeUntilClassEnds))
	case engine.StateBreaking:
		fmt.Printf("  current: %s\n", snap.CurrentSubject.Name)
		fmt.Printf("  break ends in: %s\n", countdown.Format(snap.TimeUntilBreakEnds))
	case engine.StatePrepareOnClass:
		fmt.Printf("  class starts in: %s\n", countdown.Format(snap.TimeUntilBreakEnds))
	}

	if snap.NextClassItem != nil {
		fmt.Printf("  next class: %s at %s\n",
			snap.NextSubject.Name, snap.NextClassItem.Start)
	}
	return nil
}

// resolveAt runs a single engine tick against the profile at the given
// instant, returning the resulting snapshot and the loaded store so callers
// can resolve subject names without re-reading anything.
func resolveAt(at time.Time) (*engine.Snapshot, *profile.Store, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	store, err := profile.Load(cfg.ProfilePath)
	if err != nil {
		return nil, nil, err
	}

	termStart, err := cfg.TermStart()
	if err != nil {
		return nil, nil, err
	}

	eng := engine.New(fixedClock{at}, store, store, engine.Options{
		PrepareLead: time.Duration(cfg.Engine.PrepareLead),
		TermStart:   termStart,
	}, logging.Discard())
	// Consumed IDs are intentionally not persisted: a preview must not eat
	// anyone's temp changes.
	eng.Tick()
	return eng.Snapshot(), store, nil
}
