package root

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"taskify/internal/ledger"
	"taskify/internal/ui"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show points, streak and scores",
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

			snap, err := a.ledger.Snapshot(ctx)
			if err != nil {
				return err
			}
			now := time.Now()
			daily, err := a.ledger.DailyScore(ctx, now)
			if err != nil {
				return err
			}
			weekly, err := a.ledger.WeeklyScore(ctx, now)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, "Taskify Status"))
			fmt.Fprintln(out, ui.LabelValue("Points balance", fmt.Sprintf("%s %d", ui.IconPoints, snap.PointsBalance)))
			fmt.Fprintln(out, ui.LabelValue("Daily streak", fmt.Sprintf("%s %d day(s)", ui.IconStreak, snap.StreakCount)))
			fmt.Fprintln(out, ui.LabelValue("Tasks completed", snap.CompletedTaskCount))
			fmt.Fprintln(out, ui.LabelValue("Today's score", fmt.Sprintf("%d/%d", daily, ledger.DailyPointCap)))
			fmt.Fprintln(out, ui.LabelValue("This week", fmt.Sprintf("%d/%d", weekly, ledger.WeeklyPointGoal)))

			if pet, err := a.shop.SelectedPet(ctx); err == nil && pet != nil {
				fmt.Fprintln(out, ui.LabelValue("Companion", fmt.Sprintf("%s %s", ui.IconPet, pet.Name)))
			}
			return nil
		},
	}

	return cmd
}
