package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"taskify/internal/ledger"
	"taskify/internal/tasks"
)

// RunBoard runs the interactive board until the user quits. The changes
// channel, when non-nil, triggers a reload whenever the underlying store
// reports a write.
func RunBoard(ctx context.Context, repo *tasks.Repo, l *ledger.Ledger, changes <-chan struct{}, out io.Writer) error {
	m := newBoardModel(ctx, repo, l, changes)
	p := tea.NewProgram(m, tea.WithOutput(out))
	_, err := p.Run()
	return err
}
