package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	pngWidth  = 8 * vg.Inch
	pngHeight = 4.5 * vg.Inch
)

var ErrNoData = errors.New("no data to plot")

// RenderLinePNG draws data as a line chart with gonum/plot and writes a PNG to w.
// The same defaults as NewLine apply: Y from zero, capped at 100 unless MaxY is set.
func RenderLinePNG(w io.Writer, data Data, o Options) error {
	r := resolve(KindLine, o)

	p := plot.New()
	p.Title.Text = r.title
	p.Title.TextStyle.Font.Size = vg.Points(12)
	p.BackgroundColor = color.White
	p.Legend.Top = r.legendPosition == "top"
	p.Legend.Left = false

	plotted := 0
	for i, ds := range data.Datasets {
		var pts plotter.XYs
		for x, v := range ds.Data {
			if v == nil || math.IsNaN(*v) {
				continue
			}
			pts = append(pts, plotter.XY{X: float64(x), Y: *v})
		}
		if len(pts) == 0 {
			continue
		}

		clr := parseColor(ds.BorderColor, i)

		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("series %q: %w", ds.Label, err)
		}
		line.Color = clr
		line.Width = vg.Points(2)

		scatter, err := plotter.NewScatter(pts)
		if err != nil {
			return fmt.Errorf("series %q: %w", ds.Label, err)
		}
		scatter.Color = clr
		scatter.Radius = vg.Points(2.5)
		scatter.Shape = draw.CircleGlyph{}

		p.Add(line, scatter)
		if r.showLegend && ds.Label != "" {
			p.Legend.Add(ds.Label, line)
		}
		plotted++
	}
	if plotted == 0 {
		return ErrNoData
	}
	p.Add(plotter.NewGrid())

	n := len(data.Labels)
	for _, ds := range data.Datasets {
		n = max(n, len(ds.Data))
	}
	p.X.Tick.Marker = labelTicks(data.Labels)
	p.X.Min = -0.5
	p.X.Max = float64(n) - 0.5

	if v, ok := r.minY.(float64); ok {
		p.Y.Min = v
	}
	if v, ok := r.maxY.(float64); ok {
		p.Y.Max = v
	}

	wt, err := p.WriterTo(pngWidth, pngHeight, "png")
	if err != nil {
		return fmt.Errorf("create png writer: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}

type labelTicks []string

func (lt labelTicks) Ticks(min, max float64) []plot.Tick {
	n := len(lt)
	ticks := make([]plot.Tick, 0, n)

	step := 1
	if n > 12 {
		step = (n + 11) / 12
	}
	for i := range n {
		t := plot.Tick{Value: float64(i)}
		if i%step == 0 {
			t.Label = lt[i]
		}
		ticks = append(ticks, t)
	}
	return ticks
}

var fallbackPalette = []color.RGBA{
	{R: 75, G: 192, B: 192, A: 255},
	{R: 255, G: 99, B: 132, A: 255},
	{R: 255, G: 205, B: 86, A: 255},
	{R: 54, G: 162, B: 235, A: 255},
}

// parseColor understands "rgb(r, g, b)" and "#rrggbb"; anything else falls
// back to the palette entry for the series index.
func parseColor(s string, idx int) color.Color {
	fallback := fallbackPalette[idx%len(fallbackPalette)]
	s = strings.TrimSpace(strings.ToLower(s))

	switch {
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		parts := strings.Split(strings.TrimSuffix(strings.TrimPrefix(s, "rgb("), ")"), ",")
		if len(parts) != 3 {
			return fallback
		}
		var rgb [3]uint8
		for i, part := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil || n < 0 || n > 255 {
				return fallback
			}
			rgb[i] = uint8(n)
		}
		return color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}

	case strings.HasPrefix(s, "#") && len(s) == 7:
		n, err := strconv.ParseUint(s[1:], 16, 32)
		if err != nil {
			return fallback
		}
		return color.RGBA{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 255}
	}
	return fallback
}
