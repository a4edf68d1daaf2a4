package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziyi127/TimeNest-sub002/internal/clock"
	"github.com/ziyi127/TimeNest-sub002/internal/config"
	"github.com/ziyi127/TimeNest-sub002/internal/engine"
	"github.com/ziyi127/TimeNest-sub002/internal/logging"
	"github.com/ziyi127/TimeNest-sub002/internal/profile"
	"github.com/ziyi127/TimeNest-sub002/internal/tui"
	"github.com/ziyi127/TimeNest-sub002/internal/version"
)

var runOffset time.Duration

func init() {
	runCmd.Flags().DurationVar(&runOffset, "offset", 0, "Manual clock offset, e.g. -30s or 2m")
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the timetable overlay",
	Long:  `Start the schedule engine and show the live overlay. The profile file is created with a starter timetable on first run and reloaded automatically when edited.`,
	RunE:  runOverlay,
}

func runOverlay(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// The overlay owns the terminal; keep logs out of it.
	logFile := cfg.Log.File
	if logFile == "" {
		logFile = "timenest.log"
	}
	logger, closeLog, err := logging.Setup(cfg.Log.Level, logFile)
	if err != nil {
		return err
	}
	defer closeLog()

	store, err := profile.LoadOrCreate(cfg.ProfilePath)
	if err != nil {
		return err
	}

	termStart, err := cfg.TermStart()
	if err != nil {
		return err
	}

	clk := clock.NewSystem(logger)
	clk.SetOffset(runOffset)

	eng := engine.New(clk, store, store, engine.Options{
		TickInterval: time.Duration(cfg.Engine.TickInterval),
		PrepareLead:  time.Duration(cfg.Engine.PrepareLead),
		TermStart:    termStart,
	}, logger)

	eng.OnConsumed(func(ids []string) {
		if err := store.MarkConsumed(ids); err != nil {
			logger.Warn("failed to persist consumed temp changes", "err", err)
		}
	})

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go eng.Run(ctx)
	go func() {
		if err := profile.Watch(ctx, store, logger); err != nil {
			logger.Warn("profile watcher stopped", "err", err)
		}
	}()

	if err := tui.Run(tui.Options{Engine: eng, Subjects: store, Version: version.Version}); err != nil {
		return fmt.Errorf("overlay failed: %w", err)
	}
	return nil
}
