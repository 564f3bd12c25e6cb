package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/schema"
)

// PrintPersonaResults outputs one persona card, or the empty-state message when nothing matched.
func PrintPersonaResults(match schema.PersonaMatch, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, match)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, enrichedCSVHeader(), func(cw *csv.Writer) error {
				if !match.Found {
					return nil
				}
				return cw.Write(enrichedCSVRow(match.Record, fmtFloat))
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		return fmt.Errorf("%w: %w", schema.ErrConfig, errParquetUnsupported)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writePersonaCard(w, match, cfg, duration)
		}, "Wrote card")
	}
}

func writePersonaCard(w io.Writer, match schema.PersonaMatch, cfg *contract.Config, duration time.Duration) error {
	if !match.Found {
		if _, err := fmt.Fprintln(w, schema.NoMatchMessage); err != nil {
			return err
		}
		return writeFooter(w, cfg, duration)
	}

	title := match.Card.Title
	if cfg.UseColors && match.Record.HeavyUser {
		title = contract.HeavyColor.Sprint(title)
	}
	if _, err := fmt.Fprintf(w, "%s%s\n", emoji(cfg, "👤"), title); err != nil {
		return err
	}
	for _, line := range match.Card.Lines {
		if _, err := fmt.Fprintf(w, "  %s\n", line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "  %s\n", match.Card.Engagement); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Sampled from %d matching users\n", match.Candidates); err != nil {
		return err
	}
	return writeFooter(w, cfg, duration)
}
