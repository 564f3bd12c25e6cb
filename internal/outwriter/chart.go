package outwriter

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/huangsam/devpulse/schema"
)

// WriteClusterChart renders the PCA projection as an HTML scatter chart with
// one series per cluster.
func WriteClusterChart(proj schema.Projection, k int, file string) error {
	return writeWithFile(file, func(w io.Writer) error {
		return renderClusterChart(w, proj, k)
	}, "Wrote cluster chart")
}

func renderClusterChart(w io.Writer, proj schema.Projection, k int) error {
	series := make([][]opts.ScatterData, k)
	for _, p := range proj.Points {
		if p.Cluster < 0 || p.Cluster >= k {
			return fmt.Errorf("point %s has cluster %d outside [0,%d)", p.UserID, p.Cluster, k)
		}
		series[p.Cluster] = append(series[p.Cluster], opts.ScatterData{
			Name:  p.UserID,
			Value: []interface{}{p.PC1, p.PC2},
		})
	}

	ev := proj.ExplainedVariance
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "User Segments", Width: "900px", Height: "700px"}),
		charts.WithTitleOpts(opts.Title{Title: "User Segments (PCA)", Subtitle: fmt.Sprintf("clusters=%d points=%d", k, len(proj.Points))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: fmt.Sprintf("PC1 (%.1f%%)", ev[0]*100), NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: fmt.Sprintf("PC2 (%.1f%%)", ev[1]*100), NameLocation: "middle", NameGap: 30}),
	)
	for c, data := range series {
		scatter.AddSeries(fmt.Sprintf("Cluster %d", c), data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}))
	}
	return scatter.Render(w)
}
