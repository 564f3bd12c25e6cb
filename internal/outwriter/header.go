package outwriter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/schema"
)

// LogRunHeader prints a concise, 2-line header for each command run.
// Machine-readable output keeps stdout clean, so the header goes to stderr there.
// Dropped records are also reported on stderr.
func LogRunHeader(cfg *contract.Config, command string, snap *schema.Snapshot) {
	out := os.Stdout
	if cfg.Output != schema.TextOut {
		out = os.Stderr
	}
	fmt.Fprint(out, formatRunHeader(cfg, command, snap))
	if err := snap.Quality.Err(); err != nil {
		contract.LogWarn("Dataset quality", err)
	}
}

func formatRunHeader(cfg *contract.Config, command string, snap *schema.Snapshot) string {
	name := filepath.Base(snap.Source)
	if name == "" || name == "." {
		name = "dataset"
	}

	// Line 1: the dataset and the command
	header := fmt.Sprintf("%sDataset: %s (Command: %s)\n", emoji(cfg, "🔎"), name, command)

	// Line 2: how many records survived loading and enrichment
	if dropped := snap.Quality.DroppedCount(); dropped > 0 {
		header += fmt.Sprintf("%sRecords: %d of %d kept (%d dropped)\n", emoji(cfg, "📦"), len(snap.Records), snap.Quality.Total, dropped)
	} else {
		header += fmt.Sprintf("%sRecords: %d\n", emoji(cfg, "📦"), len(snap.Records))
	}
	return header
}
