package root

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"taskify/internal/tasks"
	"taskify/internal/ui"
)

func newAddCmd() *cobra.Command {
	var description string
	var due string
	var priority string
	var category string
	var recurrence string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("title is required")
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

			dueDate := time.Now()
			if due != "" {
				dueDate, err = time.ParseInLocation("2006-01-02", due, time.Local)
				if err != nil {
					return fmt.Errorf("invalid due date %q (want YYYY-MM-DD)", due)
				}
			}

			t, err := a.tasks.Add(ctx, tasks.AddInput{
				Title:       args[0],
				Description: description,
				DueDate:     dueDate,
				Priority:    tasks.ParsePriority(priority),
				Category:    category,
				Recurrence:  tasks.ParseRecurrence(recurrence),
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Added %q (%s, %d pts, due %s)\n",
				ui.IconPlus, t.Title, ui.PriorityText(string(t.Priority)), t.Points, t.DueDate.Format("2006-01-02"))
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "desc", "D", "", "Task description")
	cmd.Flags().StringVarP(&due, "due", "d", "", "Due date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVarP(&priority, "priority", "p", "medium", "Priority (low|medium|high)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Category label")
	cmd.Flags().StringVarP(&recurrence, "recur", "r", "none", "Recurrence (none|daily|weekly)")

	return cmd
}
