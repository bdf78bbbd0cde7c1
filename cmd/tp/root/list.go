package root

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"taskify/internal/tasks"
	"taskify/internal/ui"
)

func newListCmd() *cobra.Command {
	var showCompleted bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
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

			all, err := a.tasks.List(ctx)
			if err != nil {
				return err
			}
			sort.SliceStable(all, func(i, j int) bool { return all[i].DueDate.Before(all[j].DueDate) })

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconTask, "Tasks"))
			shown := 0
			for _, t := range all {
				if t.Status == tasks.StatusCompleted && !showCompleted {
					continue
				}
				shown++
				icon := ui.IconTask
				if t.Recurring() {
					icon = ui.IconLoop
				}
				if t.Status == tasks.StatusCompleted {
					icon = ui.IconDone
				}
				fmt.Fprintf(out, "%s %s  %s  %s  due %s  %d pts",
					icon,
					ui.Muted.Render(t.ID[:8]),
					ui.StatusText(string(t.Status)),
					t.Title,
					t.DueDate.Format("2006-01-02"),
					t.Points,
				)
				if t.Category != "" {
					fmt.Fprintf(out, "  %s", ui.Muted.Render("#"+t.Category))
				}
				fmt.Fprintln(out)
			}
			if shown == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(nothing to show — add a task with `tp add`)"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&showCompleted, "all", "a", false, "Include completed tasks")

	return cmd
}
