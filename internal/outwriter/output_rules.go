package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/schema"
)

// PrintRulesCatalogue outputs every derivation, bin and rule the pipeline applies.
func PrintRulesCatalogue(model schema.RulesRenderModel, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, model)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"Section", "Name", "Condition", "Outcome"}, func(cw *csv.Writer) error {
				for _, r := range model.Rules {
					if err := cw.Write([]string{r.Section, r.Name, r.Condition, r.Outcome}); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		return fmt.Errorf("%w: %w", schema.ErrConfig, errParquetUnsupported)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRulesTable(w, model, cfg)
		}, "Wrote rules")
	}
}

func writeRulesTable(w io.Writer, model schema.RulesRenderModel, cfg *contract.Config) error {
	if _, err := fmt.Fprintf(w, "%s%s\n%s\n", emoji(cfg, "📜"), model.Title, model.Description); err != nil {
		return err
	}
	width := maxTextWidth(cfg, 50)
	var data [][]string
	for _, r := range model.Rules {
		data = append(data, []string{
			r.Section,
			r.Name,
			contract.TruncateText(r.Condition, width),
			contract.TruncateText(r.Outcome, width),
		})
	}
	return renderTable(w, []string{"Section", "Name", "Condition", "Outcome"}, data)
}
