package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziyi127/TimeNest-sub002/internal/countdown"
)

var countdownCmd = &cobra.Command{
	Use:   "countdown <target> [label]",
	Short: "Show time remaining until a target date or datetime",
	Long:  `Print the countdown to a target given as "2006-01-02" or "2006-01-02 15:04". Past targets report how many days ago they expired.`,
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runCountdown,
}

func runCountdown(cmd *cobra.Command, args []string) error {
	target, err := parseTarget(args[0])
	if err != nil {
		return err
	}

	label := "target"
	if len(args) == 2 {
		label = args[1]
	}

	now := time.Now()
	remaining, past := countdown.Compute(now, target)
	if past {
		days := countdown.DaysPast(now, target)
		switch days {
		case 0:
			fmt.Printf("%s: expired earlier today\n", label)
		case 1:
			fmt.Printf("%s: expired 1 day ago\n", label)
		default:
			fmt.Printf("%s: expired %d days ago\n", label, days)
		}
		return nil
	}

	fmt.Printf("%s: %s remaining\n", label, countdown.Format(remaining))
	return nil
}

func parseTarget(s string) (time.Time, error) {
	layouts := []string{"2006-01-02 15:04", "2006-01-02"}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid target %q, want one of: %s", s, strings.Join(layouts, ", "))
}
