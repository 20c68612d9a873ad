package logging_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"captiongen/internal/logging"
)

func TestPruneRunLogsKeepsCurrentAndRecent(t *testing.T) {
	dir := t.TempDir()
	old := time.Now().AddDate(0, 0, -10)
	files := map[string]bool{
		"captiongen-20200101T000000.log": true,
		"captiongen-20200102T000000.log": false,
		"captiongen-20260101T000000.log": false,
	}
	for name := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	for _, name := range []string{"captiongen-20200101T000000.log", "captiongen-20200102T000000.log"} {
		if err := os.Chtimes(filepath.Join(dir, name), old, old); err != nil {
			t.Fatal(err)
		}
	}

	current := filepath.Join(dir, "captiongen-20200102T000000.log")
	removed := logging.PruneRunLogs(logging.NewNop(), dir, 3, current)
	if removed != 1 {
		t.Fatalf("expected one file pruned, got %d", removed)
	}
	for name, gone := range files {
		_, err := os.Stat(filepath.Join(dir, name))
		if gone && !os.IsNotExist(err) {
			t.Fatalf("expected %s pruned", name)
		}
		if !gone && err != nil {
			t.Fatalf("expected %s kept: %v", name, err)
		}
	}

	if got := logging.PruneRunLogs(logging.NewNop(), dir, 0, ""); got != 0 {
		t.Fatalf("retention 0 must disable pruning, removed %d", got)
	}
}
