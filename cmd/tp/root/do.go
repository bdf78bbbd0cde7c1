package root

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"taskify/internal/ledger"
	"taskify/internal/ui"
)

func newDoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "do <id>",
		Short: "Complete a task",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("id is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()
			if err := a.startSession(ctx, cmd); err != nil {
				return err
			}

			t, err := a.tasks.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if t == nil {
				return fmt.Errorf("task %s not found", args[0])
			}

			now := time.Now()
			instance, err := a.tasks.Complete(ctx, t.ID, now)
			if err != nil {
				return err
			}
			res, err := a.ledger.RecordTaskCompletion(ctx, *instance, now)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if res.Duplicate {
				fmt.Fprintf(out, "%s %q is already completed — nothing to record.\n", ui.IconInfo, t.Title)
				return nil
			}
			if res.OnTime {
				fmt.Fprintf(out, "%s Completed %q on time: +%d points (balance %d)\n",
					ui.IconDone, t.Title, res.AwardedPoints, res.PointsBalance)
			} else {
				fmt.Fprintf(out, "%s Completed %q after its due date: no points awarded (balance %d)\n",
					ui.IconLate, t.Title, res.PointsBalance)
			}
			if t.Recurring() {
				fmt.Fprintln(out, ui.Muted.Render(ui.IconLoop+" Recurring task rescheduled."))
			}
			fmt.Fprintln(out, ui.LabelValue("Today's score", fmt.Sprintf("%d/%d", res.DailyScore, ledger.DailyPointCap)))
			printUnlocks(cmd, res.NewlyUnlocked)
			return nil
		},
	}

	return cmd
}
