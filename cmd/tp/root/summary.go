package root

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"taskify/internal/ledger"
	"taskify/internal/summary"
	"taskify/internal/tasks"
	"taskify/internal/ui"
)

func newSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "AI-powered daily digest (falls back to offline text)",
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

			now := time.Now()
			daily, err := a.ledger.DailyScore(ctx, now)
			if err != nil {
				return err
			}
			completedToday, err := a.ledger.CompletedToday(ctx, now)
			if err != nil {
				return err
			}

			all, err := a.tasks.List(ctx)
			if err != nil {
				return err
			}
			openToday := 0
			for _, t := range all {
				if t.Status != tasks.StatusCompleted && sameDay(t.DueDate, now) {
					openToday++
				}
			}

			in := summary.Input{
				UserName:            a.cfg.UserName,
				TasksCompletedToday: completedToday,
				TasksOpenToday:      openToday,
				DailyScore:          daily,
			}
			out := summary.Generate(ctx, a.cfg.Anthropic.APIKey, in)

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, ui.Heading(ui.IconSparkle, a.cfg.UserName+"'s Daily Digest"))
			fmt.Fprintln(w, out.PersonalizedSummary)
			fmt.Fprintln(w, "")
			fmt.Fprintln(w, ui.LabelValue(out.DailyScoreBlurb, fmt.Sprintf("%s %d/%d", ui.IconTrophy, daily, ledger.DailyPointCap)))
			return nil
		},
	}

	return cmd
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
