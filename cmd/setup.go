package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"quotereel/pkg/config"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).MarginBottom(1)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard for Quotereel",
	Long:  `Check prerequisites, create directories, and write the initial configuration.`,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	fmt.Println(titleStyle.Render("🎞  Quotereel Setup"))

	cfg := config.Default()

	steps := []struct {
		name string
		fn   func(*config.Config) error
	}{
		{"Checking prerequisites", checkPrerequisites},
		{"Configuring publishing", configurePublishing},
		{"Creating directories", createDirectories},
		{"Writing configuration", writeConfiguration},
	}
	for _, step := range steps {
		if err := step.fn(&cfg); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}

	fmt.Println(successStyle.Render("\n✓ Setup complete"))
	fmt.Println(infoStyle.Render("Put your credentials in .env, then run: quotereel auth status"))
	return nil
}

func checkPrerequisites(cfg *config.Config) error {
	for _, bin := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(bin); err != nil {
			fmt.Println(warnStyle.Render("⚠ " + bin + " not found on PATH, video generation will fail"))
		} else {
			fmt.Println(successStyle.Render("✓ " + bin + " found"))
		}
	}
	if _, err := os.Stat(cfg.Overlay.FontPath); err != nil {
		fmt.Println(warnStyle.Render("⚠ overlay font missing: " + cfg.Overlay.FontPath))
	}
	return nil
}

func configurePublishing(cfg *config.Config) error {
	var targets []string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Daily publish time (HH:MM)").
				Value(&cfg.Publish.ScheduleTime),
			huh.NewMultiSelect[string]().
				Title("Publishing targets").
				Options(
					huh.NewOption("Facebook", "facebook").Selected(true),
					huh.NewOption("TikTok", "tiktok"),
					huh.NewOption("YouTube", "youtube").Selected(true),
				).
				Value(&targets),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	cfg.Publish.Targets = config.TargetsConfig{}
	for _, t := range targets {
		switch t {
		case "facebook":
			cfg.Publish.Targets.Facebook = true
		case "tiktok":
			cfg.Publish.Targets.TikTok = true
		case "youtube":
			cfg.Publish.Targets.YouTube = true
		}
	}
	return nil
}

func createDirectories(cfg *config.Config) error {
	for _, dir := range []string{cfg.Paths.TokenDir, cfg.Storage.CacheDir} {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

func writeConfiguration(cfg *config.Config) error {
	if _, err := os.Stat("config.yaml"); err == nil {
		var overwrite bool
		err := huh.NewConfirm().
			Title("config.yaml already exists").
			Description("Overwrite it with the new settings?").
			Affirmative("Yes").
			Negative("No").
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Println(infoStyle.Render("Keeping existing config.yaml"))
			return nil
		}
	}
	if err := config.Save("config.yaml", cfg); err != nil {
		return err
	}
	fmt.Println(successStyle.Render("✓ Wrote config.yaml"))

	return writeEnvTemplate()
}

func writeEnvTemplate() error {
	if _, err := os.Stat(".env"); err == nil {
		return nil
	}
	template := `# Facebook page publishing
FACEBOOK_PAGE_ID=
FACEBOOK_ACCESS_TOKEN=

# TikTok direct post
TIKTOK_CLIENT_KEY=
TIKTOK_CLIENT_SECRET=
TIKTOK_REDIRECT_URI=http://localhost:8085/callback/tiktok

# YouTube resumable upload
YOUTUBE_CLIENT_ID=
YOUTUBE_CLIENT_SECRET=
GOOGLE_REDIRECT_URI=http://localhost:8085/callback/youtube

# Optional: fill missing secrets from GCP Secret Manager
GOOGLE_CLOUD_PROJECT=
`
	if err := os.WriteFile(".env", []byte(template), 0o600); err != nil {
		return err
	}
	fmt.Println(successStyle.Render("✓ Wrote .env template"))
	return nil
}
