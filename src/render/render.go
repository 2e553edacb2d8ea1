// Package render turns chart datasets into PNG images and CSV exports for
// the desktop viewer. Rendering goes through go-chart; keys become the X
// axis (formatted as clock times or move counts) and each dataset column
// becomes one line series.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/mckeenicholas/wca-odds-next/src/charts"
	"github.com/mckeenicholas/wca-odds-next/src/wca"
)

// ErrEmptyDataset is returned when there is nothing to draw.
var ErrEmptyDataset = errors.New("render: empty dataset")

// Options control how a dataset is drawn.
type Options struct {
	Title string
	// Width in pixels; height derives from it. Zero means the default width.
	Width int
	// FMC switches X tick labels from clock times to move counts.
	FMC bool
	// RawKeys labels X ticks with the bare key values (used for rank charts,
	// where keys are placements rather than results).
	RawKeys bool
	// YAxisName labels the value axis, e.g. "%" or "% ≤".
	YAxisName string
}

func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 2,
		StrokeColor: col,
	}
}

// Render draws the dataset as a multi-line PNG chart and returns the image
// bytes.
func Render(d charts.Dataset, opts Options) ([]byte, error) {
	if len(d.Labels) == 0 || len(d.Rows) == 0 {
		return nil, ErrEmptyDataset
	}

	xs := make([]float64, len(d.Rows))
	for i, row := range d.Rows {
		xs[i] = float64(row.Key)
	}

	series := make([]chart.Series, len(d.Labels))
	for col, label := range d.Labels {
		ys := make([]float64, len(d.Rows))
		for i, row := range d.Rows {
			ys[i] = row.Values[col]
		}
		series[col] = chart.ContinuousSeries{
			Name:    label,
			XValues: xs,
			YValues: ys,
			Style:   lineStyle(chart.GetDefaultColor(col)),
		}
	}

	width, height := Dimensions(opts.Width)
	ch := chart.Chart{
		Title:      opts.Title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 28}},
		XAxis:      chart.XAxis{Ticks: keyTicks(d, opts)},
		YAxis:      chart.YAxis{Name: opts.YAxisName},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

const maxTicks = 12

// keyTicks spaces X ticks evenly over the dataset's rows, labeled in the
// event's display unit.
func keyTicks(d charts.Dataset, opts Options) []chart.Tick {
	label := func(key int) string {
		if opts.RawKeys {
			return strconv.Itoa(key)
		}
		return wca.FormatResult(key, opts.FMC)
	}

	n := len(d.Rows)
	stride := 1
	if n > maxTicks {
		stride = (n + maxTicks - 1) / maxTicks
	}
	var ticks []chart.Tick
	for i := 0; i < n; i += stride {
		key := d.Rows[i].Key
		ticks = append(ticks, chart.Tick{Value: float64(key), Label: label(key)})
	}
	last := d.Rows[n-1].Key
	if len(ticks) == 0 || ticks[len(ticks)-1].Value != float64(last) {
		ticks = append(ticks, chart.Tick{Value: float64(last), Label: label(last)})
	}
	return ticks
}
