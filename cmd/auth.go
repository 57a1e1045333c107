package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"quotereel/internal/auth"
	"quotereel/pkg/config"
	"quotereel/pkg/httputil"

	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

var (
	authInfoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	authSuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	authErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

const authTimeout = 5 * time.Minute

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize publishing targets",
	Long:  `Complete the OAuth flow for TikTok or YouTube using credentials from .env`,
}

var authTikTokCmd = &cobra.Command{
	Use:   "tiktok",
	Short: "Authorize TikTok (OAuth with PKCE)",
	RunE:  runAuthTikTok,
}

var authYouTubeCmd = &cobra.Command{
	Use:   "youtube",
	Short: "Authorize YouTube (OAuth)",
	RunE:  runAuthYouTube,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check authorization status for all targets",
	RunE:  runAuthStatus,
}

func init() {
	authCmd.AddCommand(authTikTokCmd)
	authCmd.AddCommand(authYouTubeCmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthTikTok(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if cfg.TikTokClientKey == "" || cfg.TikTokClientSecret == "" {
		return fmt.Errorf("TIKTOK_CLIENT_KEY and TIKTOK_CLIENT_SECRET must be set in .env")
	}

	tokenPath := filepath.Join(cfg.Paths.TokenDir, "tiktok_token.json")
	manager := auth.NewTikTok(
		cfg.TikTokClientKey, cfg.TikTokClientSecret, cfg.TikTokRedirectURI,
		httputil.NewClient(30*time.Second),
		func(c *auth.Credentials) error { return auth.SaveCredentials(tokenPath, c) },
		slog.Default(),
	)

	authURL, state, err := manager.AuthorizeURL()
	if err != nil {
		return err
	}

	code, gotState, err := waitForCallback(cfg.TikTokRedirectURI, authURL)
	if err != nil {
		return err
	}
	if gotState != state {
		return fmt.Errorf("state mismatch in callback, possible forgery")
	}

	creds, err := manager.Exchange(ctx, gotState, code)
	if err != nil {
		return err
	}

	fmt.Println(authSuccessStyle.Render("✓ TikTok authorization complete"))
	fmt.Println(authSuccessStyle.Render("  Open ID: " + creds.OpenID))
	fmt.Println(authSuccessStyle.Render("  Token saved to: " + tokenPath))
	return nil
}

func runAuthYouTube(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if cfg.YouTubeClientID == "" || cfg.YouTubeClientSecret == "" {
		return fmt.Errorf("YOUTUBE_CLIENT_ID and YOUTUBE_CLIENT_SECRET must be set in .env")
	}

	tokenPath := filepath.Join(cfg.Paths.TokenDir, "youtube_token.json")
	manager := auth.NewYouTube(
		cfg.YouTubeClientID, cfg.YouTubeClientSecret, cfg.YouTubeRedirectURI,
		tokenPath, slog.Default(),
	)

	state, err := auth.RandomState()
	if err != nil {
		return err
	}
	authURL := manager.AuthCodeURL(state)

	code, gotState, err := waitForCallback(cfg.YouTubeRedirectURI, authURL)
	if err != nil {
		return err
	}
	if gotState != state {
		return fmt.Errorf("state mismatch in callback, possible forgery")
	}

	if _, err := manager.Exchange(ctx, code); err != nil {
		return err
	}

	fmt.Println(authSuccessStyle.Render("✓ YouTube authorization complete"))
	fmt.Println(authSuccessStyle.Render("  Token saved to: " + tokenPath))
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	fmt.Println(authInfoStyle.Render("\nTarget Authorization Status:\n"))

	if cfg.FacebookPageID != "" && cfg.FacebookAccessToken != "" {
		fmt.Println(authSuccessStyle.Render("✓ Facebook: page token configured"))
	} else {
		fmt.Println(authErrorStyle.Render("✗ Facebook: missing FACEBOOK_PAGE_ID or FACEBOOK_ACCESS_TOKEN"))
	}

	printOAuthStatus("TikTok", cfg.TikTokClientKey != "" && cfg.TikTokClientSecret != "",
		filepath.Join(cfg.Paths.TokenDir, "tiktok_token.json"), "quotereel auth tiktok")
	printOAuthStatus("YouTube", cfg.YouTubeClientID != "" && cfg.YouTubeClientSecret != "",
		filepath.Join(cfg.Paths.TokenDir, "youtube_token.json"), "quotereel auth youtube")

	fmt.Println()
	return nil
}

func printOAuthStatus(name string, configured bool, tokenPath, hint string) {
	if !configured {
		fmt.Println(authErrorStyle.Render("✗ " + name + ": credentials not set"))
		return
	}
	if _, err := os.Stat(tokenPath); err == nil {
		fmt.Println(authSuccessStyle.Render("✓ " + name + ": authorized (token exists)"))
		return
	}
	fmt.Println(authErrorStyle.Render("✗ " + name + ": credentials set, but not authorized"))
	fmt.Println(authInfoStyle.Render("  Run: " + hint))
}

// waitForCallback serves the OAuth redirect on the loopback address from
// redirectURI, opens the browser at authURL, and returns the code and state
// from the callback.
func waitForCallback(redirectURI, authURL string) (code, state string, err error) {
	parsed, err := url.Parse(redirectURI)
	if err != nil || parsed.Host == "" {
		return "", "", fmt.Errorf("invalid redirect uri %q", redirectURI)
	}

	type callback struct{ code, state string }
	cbChan := make(chan callback, 1)
	errChan := make(chan error, 1)

	listener, err := net.Listen("tcp", parsed.Host)
	if err != nil {
		return "", "", fmt.Errorf("start callback server: %w", err)
	}

	server := &http.Server{
		ReadHeaderTimeout: 10 * time.Second,
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != parsed.Path {
				http.NotFound(w, r)
				return
			}
			q := r.URL.Query()
			if q.Get("code") == "" {
				errChan <- fmt.Errorf("no code in callback: %s", q.Get("error"))
				_, _ = fmt.Fprintf(w, "<html><body><h1>Error</h1><p>No authorization code received.</p></body></html>")
				return
			}
			cbChan <- callback{code: q.Get("code"), state: q.Get("state")}
			_, _ = fmt.Fprintf(w, "<html><body><h1>Success!</h1><p>You can close this window and return to the terminal.</p></body></html>")
		}),
	}

	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}()

	fmt.Println(authInfoStyle.Render("\nOpening browser for authorization..."))
	fmt.Println(authInfoStyle.Render("If the browser doesn't open, visit:\n" + authURL))
	_ = browser.OpenURL(authURL)

	fmt.Println(authInfoStyle.Render("\nWaiting for authorization..."))

	select {
	case cb := <-cbChan:
		return cb.code, cb.state, nil
	case err := <-errChan:
		return "", "", err
	case <-time.After(authTimeout):
		return "", "", fmt.Errorf("authorization timed out")
	}
}
