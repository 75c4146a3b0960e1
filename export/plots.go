package export

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/just-scribblig/solar-challenge-week0/engine"
)

// ============================================================================
// PLOTS — PNG renderings of the dashboard charts
// ============================================================================

// RenderPlots writes <metric>_boxplot.png and <rankMetric>_ranking.png into
// dir and returns the written paths.
func RenderPlots(dir string, d *engine.Dashboard) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	var written []string
	if len(d.Distribution) > 0 {
		path := filepath.Join(dir, d.Metric+"_boxplot.png")
		if err := saveBoxPlot(path, d.Metric, d.Distribution); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	if d.RankingChart != nil {
		path := filepath.Join(dir, d.RankMetric+"_ranking.png")
		if err := saveBarChart(path, d.RankingChart); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func saveBoxPlot(path, metric string, boxes []engine.BoxStats) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s Distribution by Country", metric)
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.Y.Label.Text = metric

	labels := make([]string, len(boxes))
	for i, b := range boxes {
		labels[i] = b.Label
		if b.Count == 0 {
			continue
		}
		box, err := plotter.NewBoxPlot(vg.Points(30), float64(i), plotter.Values(b.Values))
		if err != nil {
			return fmt.Errorf("boxplot %s: %w", b.Label, err)
		}
		box.FillColor = boxColor(i)
		p.Add(box)
	}
	p.NominalX(labels...)
	p.Add(plotter.NewGrid())

	width := vg.Length(4+3*len(boxes)) * vg.Centimeter
	return p.Save(width, 10*vg.Centimeter, path)
}

func saveBarChart(path string, chart *engine.ChartConfig) error {
	p := plot.New()
	p.Title.Text = chart.Title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = chart.XAxis
	p.Y.Label.Text = chart.YAxis

	// NaN means sort last; they have no bar.
	var values plotter.Values
	var labels []string
	for _, pt := range chart.Series[0].Data {
		if math.IsNaN(pt.Value) {
			continue
		}
		values = append(values, pt.Value)
		labels = append(labels, pt.Label)
	}
	if len(values) == 0 {
		return nil
	}

	bars, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		return err
	}
	bars.Color = color.RGBA{R: 59, G: 82, B: 139, A: 255}
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(labels...)
	p.Add(plotter.NewGrid())

	return p.Save(12*vg.Centimeter, 9*vg.Centimeter, path)
}

var palette = []color.RGBA{
	{R: 0x44, G: 0x01, B: 0x54, A: 0xff},
	{R: 0x3b, G: 0x52, B: 0x8b, A: 0xff},
	{R: 0x21, G: 0x91, B: 0x8c, A: 0xff},
	{R: 0x5e, G: 0xc9, B: 0x62, A: 0xff},
	{R: 0xfd, G: 0xe7, B: 0x25, A: 0xff},
}

func boxColor(i int) color.Color {
	return palette[i%len(palette)]
}
