package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"quotereel/internal/app"
	"quotereel/internal/publish"
	"quotereel/pkg/config"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	publishOKStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	publishFailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Run one generate-and-publish cycle",
	Long:  `Generate a quote video and upload it to every enabled platform.`,
	RunE:  runPublish,
}

func init() {
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	application, err := app.Build(ctx, cfg, slog.Default(), recorder)
	if err != nil {
		return err
	}
	defer application.Close()

	outcome := application.Runner.Run(ctx)
	printOutcome(outcome)

	// Failed means no video was produced; publish errors are already
	// reported per target above.
	if outcome.Status == publish.StatusFailed {
		return fmt.Errorf("video generation failed")
	}
	return nil
}

func printOutcome(outcome publish.Outcome) {
	for _, result := range outcome.Results {
		if result.Err != nil {
			fmt.Println(publishFailStyle.Render(fmt.Sprintf("✗ %s: %v", result.Platform, result.Err)))
			var aerr *publish.AuthError
			if errors.As(result.Err, &aerr) {
				fmt.Printf("  Run 'quotereel auth %s' to re-authorize.\n", result.Platform)
			}
			continue
		}
		if result.ID == "" {
			fmt.Println(publishOKStyle.Render(fmt.Sprintf("✓ %s: accepted", result.Platform)))
			continue
		}
		fmt.Println(publishOKStyle.Render(fmt.Sprintf("✓ %s: %s", result.Platform, result.ID)))
	}
	fmt.Println("Cycle status:", outcome.Status)
}
