package outwriter

import (
	"errors"
	"fmt"
	"os"

	"github.com/huangsam/devpulse/schema"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// histogramBins matches the bin count of the exploratory usage histogram.
const histogramBins = 30

// WriteUsageHistogram saves a histogram of daily app usage. The image format
// follows the file extension (png, svg, pdf, ...).
func WriteUsageHistogram(values []float64, file string) error {
	if len(values) == 0 {
		return errors.New("no usage values to plot")
	}
	p := plot.New()
	p.Title.Text = "Distribution of App Usage Time"
	p.X.Label.Text = schema.ColAppUsageTime + " (min/day)"
	p.Y.Label.Text = "Users"

	hist, err := plotter.NewHist(plotter.Values(values), histogramBins)
	if err != nil {
		return fmt.Errorf("failed to build histogram: %w", err)
	}
	p.Add(hist)

	if err := p.Save(8*vg.Inch, 5*vg.Inch, file); err != nil {
		return fmt.Errorf("failed to save histogram: %w", err)
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote usage histogram to %s\n", file)
	return nil
}
