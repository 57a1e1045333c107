package cmd

import (
	"log/slog"

	"quotereel/internal/app"
	"quotereel/pkg/config"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a quote video without publishing",
	Long:  `Pick a quote, render it over the base clip and write the output video.`,
	RunE:  runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
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

	var caption string
	var genErr error
	err = spinner.New().
		Title("Generating video...").
		Action(func() {
			caption, genErr = application.Generator.Generate(ctx)
		}).
		Run()
	if err != nil {
		return err
	}
	if genErr != nil {
		return genErr
	}

	slog.Info("Video generated", "caption", caption, "path", cfg.Paths.OutputVideo)
	return nil
}
