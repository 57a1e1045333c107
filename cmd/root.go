package cmd

import (
	"log/slog"
	"os"

	"quotereel/internal/logging"

	"github.com/spf13/cobra"
)

var (
	verbose  bool
	recorder = logging.NewRecorder(0)
)

var rootCmd = &cobra.Command{
	Use:   "quotereel",
	Short: "Generate and publish short quote videos",
	Long: `Quotereel renders a daily quote over a vertical background clip and
publishes the result to Facebook, TikTok and YouTube.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		setupLogger()
	}
}

func Execute() error {
	return rootCmd.Execute()
}

func setupLogger() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	text := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(logging.NewHandler(text, recorder)))
}
