package root

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"taskify/internal/ledger"
	"taskify/internal/shop"
	"taskify/internal/ui"
)

func newStoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Browse and buy cosmetic rewards",
	}

	cmd.AddCommand(newStoreListCmd(), newStoreBuyCmd(), newStorePetCmd())
	return cmd
}

func newStoreListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List store items",
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

			owned, err := a.shop.Owned(ctx)
			if err != nil {
				return err
			}
			snap, err := a.ledger.Snapshot(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconStore, "Store"))
			fmt.Fprintln(out, ui.LabelValue("Balance", fmt.Sprintf("%s %d", ui.IconPoints, snap.PointsBalance)))
			fmt.Fprintln(out, "")

			sections := []struct {
				title string
				icon  string
				items []shop.Item
			}{
				{"Themes", ui.IconTheme, shop.Themes},
				{"Pets", ui.IconPet, shop.Pets},
			}
			for _, sec := range sections {
				fmt.Fprintln(out, ui.H2.Render(sec.icon+" "+sec.title))
				for _, it := range sec.items {
					state := fmt.Sprintf("%d pts", it.Cost)
					switch {
					case it.ComingSoon:
						state = ui.Muted.Render("coming soon")
					case owned[it.ID]:
						state = ui.Good.Render("owned")
					case it.Free():
						state = ui.Good.Render("free")
					}
					fmt.Fprintf(out, "- %s %s — %s [%s]\n", ui.Key.Render(it.ID), it.Name, ui.Muted.Render(it.Description), state)
				}
				fmt.Fprintln(out, "")
			}
			return nil
		},
	}
}

func newStoreBuyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "buy <item>",
		Short: "Buy a store item with points",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("item id is required")
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

			res, err := a.shop.Purchase(ctx, args[0], time.Now())
			if err != nil {
				var short *ledger.InsufficientPointsError
				if errors.As(err, &short) {
					return fmt.Errorf("not enough points: this costs %d and you have %d (need %d more)",
						short.Cost, short.Balance, short.Shortfall())
				}
				return err
			}

			item, _ := shop.Find(res.ItemID)
			fmt.Fprintf(cmd.OutOrStdout(), "%s Unlocked %s for %d points (balance %d)\n",
				ui.IconDone, ui.Gold.Render(item.Name), res.Cost, res.PointsBalance)
			printUnlocks(cmd, res.NewlyUnlocked)
			return nil
		},
	}
}

func newStorePetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pet <id>",
		Short: "Choose your active pet companion",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("pet id is required")
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

			if err := a.shop.SelectPet(ctx, args[0]); err != nil {
				return err
			}
			item, _ := shop.Find(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s is now your companion!\n", ui.IconPet, item.Name)
			return nil
		},
	}
}
