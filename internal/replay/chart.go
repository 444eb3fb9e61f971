package replay

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/formsense/repcoach/internal/exercise"
)

// WriteAngleChart renders the replayed driving angle per frame as an HTML
// line chart, with horizontal markers at the band boundaries so state
// transitions are readable at a glance.
func WriteAngleChart(w io.Writer, p exercise.Profile, res *Result) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s (%s): %s", p.Exercise, p.Level, res.Script),
			Subtitle: fmt.Sprintf("%d frames, %d correct / %d incorrect", len(res.Angles), res.Summary.Correct, res.Summary.Incorrect),
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: "driving angle (deg)"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "frame"}),
	)

	xs := make([]string, len(res.Angles))
	items := make([]opts.LineData, len(res.Angles))
	for i, a := range res.Angles {
		xs[i] = strconv.Itoa(i)
		items[i] = opts.LineData{Value: a}
	}

	line.SetXAxis(xs).
		AddSeries("driving angle", items).
		SetSeriesOptions(
			charts.WithMarkLineNameYAxisItemOpts(
				opts.MarkLineNameYAxisItem{Name: "normal high", YAxis: p.Normal.High},
				opts.MarkLineNameYAxisItem{Name: "trans high", YAxis: p.Trans.High},
				opts.MarkLineNameYAxisItem{Name: "pass low", YAxis: p.Pass.Low},
			),
		)

	return line.Render(w)
}
