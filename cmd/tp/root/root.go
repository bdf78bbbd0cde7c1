package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"taskify/internal/ui"
)

const Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:           "tp",
	Short:         "Taskify — local-first task tracker with points and achievements",
	Long:          "Taskify is a local-first CLI/TUI task tracker with a gamification layer: complete tasks, earn points, unlock achievements, and spend points on cosmetic rewards.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	rootCmd.AddCommand(
		newAddCmd(),
		newDoCmd(),
		newListCmd(),
		newStatusCmd(),
		newAchievementsCmd(),
		newStoreCmd(),
		newBoardCmd(),
		newSummaryCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
