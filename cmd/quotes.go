package cmd

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"quotereel/internal/quotes"
	"quotereel/pkg/config"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var quoteIndexStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))

var quotesCmd = &cobra.Command{
	Use:   "quotes",
	Short: "Manage the quote pool",
}

var quotesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all quotes",
	RunE:  runQuotesList,
}

var quotesAddCmd = &cobra.Command{
	Use:   "add [quote]",
	Short: "Add a quote to the pool",
	RunE:  runQuotesAdd,
}

var quotesRemoveCmd = &cobra.Command{
	Use:   "remove <index>",
	Short: "Remove a quote by its list index",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuotesRemove,
}

func init() {
	quotesCmd.AddCommand(quotesListCmd)
	quotesCmd.AddCommand(quotesAddCmd)
	quotesCmd.AddCommand(quotesRemoveCmd)
	rootCmd.AddCommand(quotesCmd)
}

func quoteStore(cmd *cobra.Command) (*quotes.Store, error) {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return nil, err
	}
	return quotes.NewStore(cfg.Paths.QuotesFile, slog.Default()), nil
}

func runQuotesList(cmd *cobra.Command, args []string) error {
	store, err := quoteStore(cmd)
	if err != nil {
		return err
	}

	all, err := store.List()
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Println("No quotes yet. Add one with: quotereel quotes add")
		return nil
	}
	for i, q := range all {
		fmt.Printf("%s %s\n", quoteIndexStyle.Render(fmt.Sprintf("%3d", i)), q)
	}
	return nil
}

func runQuotesAdd(cmd *cobra.Command, args []string) error {
	store, err := quoteStore(cmd)
	if err != nil {
		return err
	}

	quote := strings.Join(args, " ")
	if quote == "" {
		err := huh.NewInput().
			Title("New quote").
			Value(&quote).
			Run()
		if err != nil {
			return err
		}
	}

	if err := store.Append(quote); err != nil {
		return err
	}
	fmt.Println(successStyle.Render("✓ Quote added"))
	return nil
}

func runQuotesRemove(cmd *cobra.Command, args []string) error {
	store, err := quoteStore(cmd)
	if err != nil {
		return err
	}

	index, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid index %q", args[0])
	}
	if err := store.Delete(index); err != nil {
		return err
	}
	fmt.Println(successStyle.Render("✓ Quote removed"))
	return nil
}
