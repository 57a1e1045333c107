// Package quotes manages the plain-text quote pool, one quote per line.
package quotes

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"strings"

	"quotereel/pkg/config"
)

// Store reads and mutates the quote file. The file may not exist yet; that
// counts as an empty pool.
type Store struct {
	path   string
	logger *slog.Logger
	pick   func(n int) int
}

func NewStore(path string, logger *slog.Logger) *Store {
	return &Store{path: path, logger: logger, pick: rand.IntN}
}

// List returns all non-blank quotes in file order.
func (s *Store) List() ([]string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read quotes file: %w", err)
	}

	var out []string
	for _, line := range strings.Split(string(data), "\n") {
		if q := strings.TrimSpace(line); q != "" {
			out = append(out, q)
		}
	}
	return out, nil
}

// Append adds a quote to the end of the file. Blank quotes are rejected.
func (s *Store) Append(quote string) error {
	quote = strings.TrimSpace(quote)
	if quote == "" {
		return fmt.Errorf("quote is empty")
	}
	if strings.Contains(quote, "\n") {
		return fmt.Errorf("quote must be a single line")
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open quotes file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(quote + "\n"); err != nil {
		return fmt.Errorf("append quote: %w", err)
	}
	return nil
}

// Delete removes the quote at index (zero-based, in List order) and
// rewrites the file.
func (s *Store) Delete(index int) error {
	all, err := s.List()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(all) {
		return fmt.Errorf("quote index %d out of range (have %d)", index, len(all))
	}

	remaining := append(all[:index:index], all[index+1:]...)
	var sb strings.Builder
	for _, q := range remaining {
		sb.WriteString(q)
		sb.WriteString("\n")
	}
	if err := os.WriteFile(s.path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("rewrite quotes file: %w", err)
	}
	return nil
}

// Select picks a random quote. An empty or unreadable pool yields the
// fallback quote so generation can still proceed.
func (s *Store) Select() string {
	all, err := s.List()
	if err != nil {
		s.logger.Warn("could not read quotes, using fallback", "error", err)
		return config.FallbackQuote
	}
	if len(all) == 0 {
		s.logger.Warn("quote pool is empty, using fallback")
		return config.FallbackQuote
	}
	return all[s.pick(len(all))]
}
