package root

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"taskify/internal/config"
	"taskify/internal/ledger"
	"taskify/internal/shop"
	"taskify/internal/storage"
	"taskify/internal/tasks"
	"taskify/internal/ui"
)

// app bundles the wired collaborators every command needs.
type app struct {
	cfg    *config.Config
	store  *storage.Store
	tasks  *tasks.Repo
	ledger *ledger.Ledger
	shop   *shop.Shop
}

func openApp(ctx context.Context) (*app, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	db, err := storage.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = db.Close()
	}

	store := storage.NewStore(db)
	l := ledger.New(store)
	return &app{
		cfg:    cfg,
		store:  store,
		tasks:  tasks.NewRepo(store),
		ledger: l,
		shop:   shop.New(store, l),
	}, cleanup, nil
}

// startSession records the daily login (every command invocation counts as
// a session start) and announces streak changes and unlocks. Re-running on
// the same day is a no-op.
func (a *app) startSession(ctx context.Context, cmd *cobra.Command) error {
	res, err := a.ledger.RecordDailyLogin(ctx, time.Now())
	if err != nil {
		return err
	}
	if res.Extended {
		fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render(fmt.Sprintf("%s Daily streak: %d day(s)", ui.IconStreak, res.Streak)))
	}
	printUnlocks(cmd, res.NewlyUnlocked)
	return nil
}

func printUnlocks(cmd *cobra.Command, events []ledger.UnlockEvent) {
	for _, ev := range events {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s (+%d points)\n",
			ui.IconTrophy, ui.BadgeUnlock, ui.Gold.Render(ev.Title), ev.RewardPoints)
	}
}
