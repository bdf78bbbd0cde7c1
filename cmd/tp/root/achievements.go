package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"taskify/internal/ledger"
	"taskify/internal/ui"
)

func newAchievementsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "achievements",
		Aliases: []string{"ach"},
		Short:   "Show achievement progress",
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

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconTrophy, "Achievements"))
			for _, def := range ledger.Catalog {
				p := snap.Achievements[def.ID]
				if def.MultiStage() {
					fmt.Fprintf(out, "%s %s\n", ui.H2.Render(def.Title), ui.Muted.Render("("+def.Description+")"))
					for _, st := range def.Stages {
						mark := ui.Muted.Render("locked")
						if p.CurrentStage >= st.Stage {
							when := p.StageUnlockDates[st.Stage]
							mark = ui.Good.Render("unlocked " + when.Format("2006-01-02"))
						}
						fmt.Fprintf(out, "  %s %s — %s [%s] (+%d pts)\n",
							ui.Gold.Render(st.TitleSuffix), st.Description, ui.Muted.Render(fmt.Sprintf("needs %d", st.CriteriaCount)), mark, st.RewardPoints)
					}
					continue
				}

				mark := ui.Muted.Render("locked")
				if p.Unlocked {
					mark = ui.Good.Render("unlocked")
					if p.UnlockDate != nil {
						mark = ui.Good.Render("unlocked " + p.UnlockDate.Format("2006-01-02"))
					}
				}
				fmt.Fprintf(out, "%s — %s [%s] (+%d pts)\n", ui.H2.Render(def.Title), def.Description, mark, def.RewardPoints)
			}
			return nil
		},
	}

	return cmd
}
