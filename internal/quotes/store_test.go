package quotes

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"quotereel/pkg/config"
)

func newTestStore(t *testing.T, content string) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quotes.txt")
	if content != "" {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return NewStore(path, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestListSkipsBlankLines(t *testing.T) {
	store := newTestStore(t, "first\n\n  \nsecond\nthird\n")

	all, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"first", "second", "third"}
	if len(all) != len(want) {
		t.Fatalf("got %v, want %v", all, want)
	}
	for i := range want {
		if all[i] != want[i] {
			t.Errorf("quote %d: got %q, want %q", i, all[i], want[i])
		}
	}
}

func TestListMissingFileIsEmpty(t *testing.T) {
	store := newTestStore(t, "")
	all, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 0 {
		t.Errorf("expected empty pool, got %v", all)
	}
}

func TestAppendCreatesFile(t *testing.T) {
	store := newTestStore(t, "")
	if err := store.Append("  stay hungry  "); err != nil {
		t.Fatal(err)
	}

	all, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || all[0] != "stay hungry" {
		t.Errorf("got %v, want trimmed single quote", all)
	}
}

func TestAppendRejectsBlank(t *testing.T) {
	store := newTestStore(t, "")
	if err := store.Append("   "); err == nil {
		t.Error("expected error for blank quote")
	}
	if err := store.Append("two\nlines"); err == nil {
		t.Error("expected error for multi-line quote")
	}
}

func TestDelete(t *testing.T) {
	store := newTestStore(t, "a\nb\nc\n")
	if err := store.Delete(1); err != nil {
		t.Fatal(err)
	}

	all, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[0] != "a" || all[1] != "c" {
		t.Errorf("got %v, want [a c]", all)
	}
}

func TestDeleteOutOfRange(t *testing.T) {
	store := newTestStore(t, "a\n")
	if err := store.Delete(5); err == nil {
		t.Error("expected error for out-of-range index")
	}
	if err := store.Delete(-1); err == nil {
		t.Error("expected error for negative index")
	}
}

func TestSelectFallbackOnEmptyPool(t *testing.T) {
	store := newTestStore(t, "")
	if got := store.Select(); got != config.FallbackQuote {
		t.Errorf("got %q, want fallback", got)
	}
}

func TestSelectPicksFromPool(t *testing.T) {
	store := newTestStore(t, "alpha\nbeta\n")
	store.pick = func(n int) int { return 1 }

	if got := store.Select(); got != "beta" {
		t.Errorf("got %q, want beta", got)
	}
}
