package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"taskify/internal/ledger"
	"taskify/internal/tasks"
	"taskify/internal/ui"
)

type boardModel struct {
	ctx    context.Context
	repo   *tasks.Repo
	ledger *ledger.Ledger

	width  int
	height int

	snapshot *ledger.Snapshot
	daily    int
	weekly   int
	tasks    []tasks.Task

	selected int

	changes <-chan struct{}

	lastLog string
	loading bool
	err     error
}

type loadedMsg struct {
	snapshot *ledger.Snapshot
	daily    int
	weekly   int
	tasks    []tasks.Task
	err      error
}

type completedMsg struct {
	id  string
	res *ledger.CompletionResult
	err error
}

type storeChangedMsg struct{}

func newBoardModel(ctx context.Context, repo *tasks.Repo, l *ledger.Ledger, changes <-chan struct{}) boardModel {
	return boardModel{
		ctx:     ctx,
		repo:    repo,
		ledger:  l,
		changes: changes,
		loading: true,
		lastLog: "Loaded.",
	}
}

func (m boardModel) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.listenCmd())
}

func (m boardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		snap, err := m.ledger.Snapshot(m.ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		now := time.Now()
		daily, err := m.ledger.DailyScore(m.ctx, now)
		if err != nil {
			return loadedMsg{err: err}
		}
		weekly, err := m.ledger.WeeklyScore(m.ctx, now)
		if err != nil {
			return loadedMsg{err: err}
		}
		all, err := m.repo.List(m.ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		sort.SliceStable(all, func(i, j int) bool {
			if all[i].Status == tasks.StatusCompleted != (all[j].Status == tasks.StatusCompleted) {
				return all[j].Status == tasks.StatusCompleted
			}
			return all[i].DueDate.Before(all[j].DueDate)
		})
		return loadedMsg{snapshot: snap, daily: daily, weekly: weekly, tasks: all}
	}
}

// listenCmd waits for the next change notification from the store so other
// writers (another tab, so to speak) refresh this view.
func (m boardModel) listenCmd() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-m.changes; !ok {
			return nil
		}
		return storeChangedMsg{}
	}
}

func (m boardModel) completeCmd(id string) tea.Cmd {
	return func() tea.Msg {
		now := time.Now()
		instance, err := m.repo.Complete(m.ctx, id, now)
		if err != nil {
			return completedMsg{id: id, err: err}
		}
		res, err := m.ledger.RecordTaskCompletion(m.ctx, *instance, now)
		return completedMsg{id: id, res: res, err: err}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.lastLog = "Load failed: " + msg.err.Error()
			return m, nil
		}
		m.snapshot = msg.snapshot
		m.daily = msg.daily
		m.weekly = msg.weekly
		m.tasks = msg.tasks
		if m.selected >= len(m.tasks) {
			m.selected = len(m.tasks) - 1
		}
		if m.selected < 0 {
			m.selected = 0
		}
		return m, nil
	case storeChangedMsg:
		return m, tea.Batch(m.loadCmd(), m.listenCmd())
	case completedMsg:
		if msg.err != nil {
			m.lastLog = "Complete failed: " + msg.err.Error()
			return m, nil
		}
		m.lastLog = completionLog(msg.res)
		return m, m.loadCmd()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.loading = true
			m.lastLog = "Refreshing…"
			return m, m.loadCmd()
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "j":
			if m.selected < len(m.tasks)-1 {
				m.selected++
			}
			return m, nil
		case "c", " ":
			if m.selected < 0 || m.selected >= len(m.tasks) {
				return m, nil
			}
			t := m.tasks[m.selected]
			if t.Status == tasks.StatusCompleted {
				m.lastLog = "Already completed."
				return m, nil
			}
			m.lastLog = fmt.Sprintf("Completing %q…", t.Title)
			return m, m.completeCmd(t.ID)
		}
	}
	return m, nil
}

func completionLog(res *ledger.CompletionResult) string {
	if res.Duplicate {
		return "Already recorded."
	}
	var b strings.Builder
	if res.OnTime {
		fmt.Fprintf(&b, "Completed on time: +%d points (balance %d).", res.AwardedPoints, res.PointsBalance)
	} else {
		fmt.Fprintf(&b, "Completed late: no points awarded.")
	}
	for _, ev := range res.NewlyUnlocked {
		fmt.Fprintf(&b, " %s %s (+%d)!", ui.IconTrophy, ev.Title, ev.RewardPoints)
	}
	return b.String()
}

func (m boardModel) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit.\n"
	}

	var body strings.Builder
	body.WriteString(m.renderHeader())
	body.WriteString("\n\n")
	body.WriteString(m.renderTasks())
	body.WriteString("\n")
	body.WriteString(m.renderFooter())
	return body.String()
}

func (m boardModel) renderHeader() string {
	if m.snapshot == nil {
		return "Taskify — loading…"
	}
	return fmt.Sprintf(
		"Taskify | %s %d points | %s %d day streak | today %d/%d | week %d/%d",
		ui.IconPoints, m.snapshot.PointsBalance,
		ui.IconStreak, m.snapshot.StreakCount,
		m.daily, ledger.DailyPointCap,
		m.weekly, ledger.WeeklyPointGoal,
	)
}

func (m boardModel) renderTasks() string {
	if m.loading {
		return "Loading…"
	}
	if len(m.tasks) == 0 {
		return ui.Muted.Render("(no tasks — add one with `tp add`)")
	}

	var out []string
	for i, t := range m.tasks {
		icon := ui.IconTask
		if t.Recurring() {
			icon = ui.IconLoop
		}
		if t.Status == tasks.StatusCompleted {
			icon = ui.IconDone
		}
		line := fmt.Sprintf("%s %-8s %s %s due %s (%d pts)",
			icon,
			shortID(t.ID),
			ui.StatusText(string(t.Status)),
			t.Title,
			t.DueDate.Format("Jan 02"),
			t.Points,
		)
		if i == m.selected {
			line = ui.SelectedRow.Render("> " + line)
		} else {
			line = "  " + line
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func (m boardModel) renderFooter() string {
	keys := ui.Muted.Render("↑/↓ move · c/space complete · r refresh · q quit")
	return keys + "\n" + m.lastLog + "\n"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
