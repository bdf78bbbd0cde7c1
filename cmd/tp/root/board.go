package root

import (
	"context"

	"github.com/spf13/cobra"

	"taskify/internal/storage"
	"taskify/internal/tui"
)

func newBoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Interactive task board (TUI)",
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

			// Cross-process refresh: other tp invocations write the same
			// file, the board reloads when they do.
			changes := make(chan struct{}, 1)
			notify := func() {
				select {
				case changes <- struct{}{}:
				default:
				}
			}
			stopWatch, err := storage.Watch(a.cfg.DBPath, notify)
			if err == nil {
				defer stopWatch()
			}

			return tui.RunBoard(ctx, a.tasks, a.ledger, changes, cmd.OutOrStdout())
		},
	}

	return cmd
}
