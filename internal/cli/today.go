package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziyi127/TimeNest-sub002/internal/profile"
	"github.com/ziyi127/TimeNest-sub002/internal/schedule"
)

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Print today's effective timetable",
	RunE:  runToday,
}

func runToday(cmd *cobra.Command, args []string) error {
	snap, store, err := resolveAt(time.Now())
	if err != nil {
		return err
	}

	if snap.Plan == nil {
		fmt.Println("No schedule today.")
		return nil
	}
	fmt.Printf("%s\n", snap.Plan.Name)

	if snap.Layout == nil {
		return nil
	}

	for i := range snap.Layout.Items {
		item := &snap.Layout.Items[i]
		var label string

		switch item.Kind {
		case schedule.KindClass:
			idx := snap.Layout.ClassIndexOf(item)
			label = subjectLabel(store, snap.Plan, idx)
		case schedule.KindBreak:
			label = item.BreakLabel
			if label == "" {
				label = "Break"
			}
		default:
			continue
		}

		marker := " "
		if item == snap.CurrentItem {
			marker = ">"
		}
		fmt.Printf("%s %s-%s  %s\n", marker, item.Start, item.End, label)
	}
	return nil
}

func subjectLabel(store *profile.Store, plan *schedule.ClassPlan, idx int) string {
	if idx < 0 || idx >= len(plan.Classes) {
		return schedule.EmptySubject().Name
	}
	slot := plan.Classes[idx]
	if !slot.Enabled {
		return schedule.EmptySubject().Name
	}
	subj, ok := store.Subject(slot.SubjectID)
	if !ok {
		return schedule.EmptySubject().Name
	}
	name := subj.Name
	if slot.Changed {
		name += " (changed)"
	}
	return name
}
