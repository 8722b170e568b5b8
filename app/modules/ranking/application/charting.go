package rankingservice

import (
	"bytes"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ChartPalette holds the colors of rendered charts.
type ChartPalette struct {
	Background  drawing.Color
	PrimaryLine drawing.Color
	AccentLine  drawing.Color
	TextColor   drawing.Color
}

// DefaultChartPalette is used unless a service is given another palette.
var DefaultChartPalette = ChartPalette{
	Background:  drawing.ColorFromHex("1b1d23"),
	PrimaryLine: drawing.ColorFromHex("4f9dde"),
	AccentLine:  drawing.ColorFromHex("f2b632"),
	TextColor:   drawing.ColorFromHex("e6e6e6"),
}

// GenerateRecordHistoryChart produces a PNG line chart of a record history,
// oldest record on the left. Better values are drawn higher.
func GenerateRecordHistoryChart(history *RecordHistory, palette ChartPalette) ([]byte, error) {
	if history == nil || len(history.Records) == 0 {
		return renderNoDataPlaceholder(palette)
	}

	n := len(history.Records)
	xValues := make([]time.Time, n)
	yValues := make([]float64, n)
	// Records arrive latest first.
	for i, r := range history.Records {
		xValues[n-1-i] = r.DateAchieved
		yValues[n-1-i] = float64(r.Value)
	}

	mainSeries := chart.TimeSeries{
		Name:    history.ChartName,
		XValues: xValues,
		YValues: yValues,
		Style: chart.Style{
			StrokeColor: palette.PrimaryLine,
			StrokeWidth: 2,
			DotWidth:    4,
			DotColor:    palette.AccentLine,
		},
	}

	// go-chart refuses zero-width ranges, so pad single-valued axes.
	yRange := &chart.ContinuousRange{
		// Lower is better on ascending charts, so flip it to the top.
		Descending: history.OrderAscending,
	}
	if lo, hi := minMax(yValues); lo == hi {
		yRange.Min, yRange.Max = lo-1, hi+1
	}
	var xRange chart.Range
	if first, last := xValues[0], xValues[n-1]; first.Equal(last) {
		xRange = &chart.ContinuousRange{
			Min: chart.TimeToFloat64(first.Add(-24 * time.Hour)),
			Max: chart.TimeToFloat64(last.Add(24 * time.Hour)),
		}
	}

	formatSpec := history.formatSpec
	graph := chart.Chart{
		Width:  800,
		Height: 400,
		Background: chart.Style{
			FillColor: palette.Background,
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.XAxis{
			Name:           "Date",
			ValueFormatter: chart.TimeValueFormatterWithFormat(time.DateOnly),
			Range:          xRange,
			Style: chart.Style{
				FontColor: palette.TextColor,
			},
		},
		YAxis: chart.YAxis{
			Name: history.ChartName,
			Style: chart.Style{
				FontColor: palette.TextColor,
			},
			ValueFormatter: func(v interface{}) string {
				f, ok := v.(float64)
				if !ok || f < 0 || len(formatSpec) == 0 {
					return chart.FloatValueFormatter(v)
				}
				s, err := formatSpec.Format(int64(f))
				if err != nil {
					return chart.FloatValueFormatter(v)
				}
				return s
			},
			Range: yRange,
		},
		Series: []chart.Series{mainSeries},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func minMax(values []float64) (lo, hi float64) {
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}

func renderNoDataPlaceholder(palette ChartPalette) ([]byte, error) {
	const (
		width  = 400
		height = 200
		msg    = "No records found"
	)

	graph := chart.Chart{
		Width:  width,
		Height: height,
		Background: chart.Style{
			FillColor: palette.Background,
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.XAxis{Style: chart.Style{Hidden: true}},
		YAxis: chart.YAxis{Style: chart.Style{Hidden: true}},
		// Render needs one visible series with a non-zero range.
		Series: []chart.Series{
			chart.ContinuousSeries{
				XValues: []float64{0, 1},
				YValues: []float64{0, 1},
				Style: chart.Style{
					StrokeColor: drawing.ColorTransparent,
					StrokeWidth: 1,
				},
			},
		},
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, chartDefaults chart.Style) {
				r.SetFont(chartDefaults.GetFont())
				r.SetFontColor(palette.TextColor)
				r.SetFontSize(12.0)
				tb := r.MeasureText(msg)
				x := cb.Left + (cb.Width()-tb.Width())/2
				y := cb.Top + (cb.Height()+tb.Height())/2
				r.Text(msg, x, y)
			},
		},
	}
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
