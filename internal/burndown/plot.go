package burndown

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/sprintfang/internal/snapshot"
	"github.com/Sumatoshi-tech/sprintfang/internal/sprintwindow"
)

const chartSymbolSize = 8

// GenerateChart builds the sprint burndown line chart: the ideal reference
// line over every window day, with actual remaining points aligned to the
// days a snapshot exists for.
func GenerateChart(actual, ideal []Point) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Sprint Burndown",
			Subtitle: "Remaining story points vs ideal",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "5px"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Date"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Story Points"}),
	)

	xLabels := make([]string, len(ideal))
	idealData := make([]opts.LineData, len(ideal))
	actualData := make([]opts.LineData, len(ideal))

	actualByDate := make(map[string]float64, len(actual))
	for _, point := range actual {
		actualByDate[point.Date.Format(snapshot.DateLayout)] = point.Remaining
	}

	for i, point := range ideal {
		stamp := point.Date.Format(snapshot.DateLayout)
		xLabels[i] = stamp
		idealData[i] = opts.LineData{Value: point.Remaining}

		// Days without a snapshot chart as gaps, not zeros.
		if remaining, found := actualByDate[stamp]; found {
			actualData[i] = opts.LineData{Value: remaining}
		} else {
			actualData[i] = opts.LineData{Value: "-"}
		}
	}

	line.SetXAxis(xLabels)
	line.AddSeries("Ideal", idealData)
	line.AddSeries("Remaining", actualData,
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true), SymbolSize: chartSymbolSize}),
	)

	return line
}

// RenderChart writes the burndown chart as a self-contained HTML document.
// The chart is only meaningful with both a window and a non-empty series;
// callers skip rendering otherwise.
func RenderChart(w io.Writer, actual []Point, window sprintwindow.Window) error {
	start := 0.0
	if len(actual) > 0 {
		start = actual[0].Remaining
	}

	ideal := IdealLine(start, window)

	err := GenerateChart(actual, ideal).Render(w)
	if err != nil {
		return fmt.Errorf("render burndown chart: %w", err)
	}

	return nil
}
