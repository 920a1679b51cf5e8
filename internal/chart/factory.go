// Package chart builds ECharts configurations for the dashboard canvases.
//
// Every constructor resolves its canvas first; when the page has no canvas
// with the requested id the constructor returns nil and builds nothing.
// Caller options are layered over per-kind defaults:
//
//	all kinds:  legend at the top, title shown (empty text by default)
//	line, bar:  Y axis starts at zero
//	line:       Y axis capped at 100 unless MaxY is given
package chart

import (
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"go.uber.org/zap"
)

// Kind identifies one of the three supported chart types.
type Kind string

const (
	KindLine Kind = "line"
	KindBar  Kind = "bar"
	KindPie  Kind = "pie"
)

const (
	defaultLegendPosition = "top"
	defaultLineMaxY       = 100.0
	defaultWidth          = "100%"
	defaultHeight         = "360px"
)

// Renderable is satisfied by every go-echarts chart.
type Renderable interface {
	Validate()
	JSON() map[string]interface{}
}

// Surface is a resolved drawing target a chart attaches to.
type Surface interface {
	Attach(kind Kind, c Renderable)
}

// Canvases resolves canvas ids to drawing surfaces.
type Canvases interface {
	Canvas(id string) (Surface, bool)
}

// Dataset is one series of values; nil entries leave a gap.
type Dataset struct {
	Label       string
	Data        []*float64
	BorderColor string
	// Colors, when set, colours pie slices individually.
	Colors []string
	Smooth bool
}

// Data pairs category labels with one or more datasets.
type Data struct {
	Labels   []string
	Datasets []Dataset
}

// Options are caller overrides. Zero values keep the kind's defaults.
type Options struct {
	Title          string
	LegendPosition string
	HideLegend     bool
	BeginAtZero    *bool
	MinY           *float64
	MaxY           *float64
	Width          string
	Height         string
}

// resolved holds the effective options after defaults are applied.
type resolved struct {
	title          string
	legendPosition string
	showLegend     bool
	minY           interface{}
	maxY           interface{}
	width          string
	height         string
}

func resolve(kind Kind, o Options) resolved {
	r := resolved{
		title:          o.Title,
		legendPosition: defaultLegendPosition,
		showLegend:     !o.HideLegend,
		width:          defaultWidth,
		height:         defaultHeight,
	}
	if o.LegendPosition != "" {
		r.legendPosition = o.LegendPosition
	}
	if o.Width != "" {
		r.width = o.Width
	}
	if o.Height != "" {
		r.height = o.Height
	}

	if kind == KindPie {
		return r
	}

	beginAtZero := true
	if o.BeginAtZero != nil {
		beginAtZero = *o.BeginAtZero
	}
	if beginAtZero {
		r.minY = 0.0
	}
	if o.MinY != nil {
		r.minY = *o.MinY
	}

	if kind == KindLine {
		r.maxY = defaultLineMaxY
	}
	if o.MaxY != nil {
		r.maxY = *o.MaxY
	}
	return r
}

// Factory constructs charts on document canvases.
type Factory struct {
	logger *zap.Logger
}

func NewFactory(logger *zap.Logger) *Factory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Factory{logger: logger.Named("chart-factory")}
}

func (f *Factory) surface(doc Canvases, kind Kind, canvasID string) (Surface, bool) {
	if doc == nil {
		return nil, false
	}
	s, ok := doc.Canvas(canvasID)
	if !ok {
		f.logger.Debug("canvas not found", zap.String("kind", string(kind)), zap.String("canvas", canvasID))
	}
	return s, ok
}

func globalOpts(canvasID, tooltipTrigger string, r resolved) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			ChartID: canvasID,
			Width:   r.width,
			Height:  r.height,
		}),
		charts.WithTitleOpts(opts.Title{
			Title: r.title,
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(r.showLegend),
			Top:  r.legendPosition,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: tooltipTrigger,
		}),
	}
}

func yAxisOpts(r resolved) charts.GlobalOpts {
	return charts.WithYAxisOpts(opts.YAxis{
		Type: "value",
		Min:  r.minY,
		Max:  r.maxY,
	})
}

func lineData(values []*float64) []opts.LineData {
	out := make([]opts.LineData, len(values))
	for i, v := range values {
		if v == nil {
			out[i] = opts.LineData{Value: nil}
			continue
		}
		out[i] = opts.LineData{Value: *v}
	}
	return out
}

func barData(values []*float64) []opts.BarData {
	out := make([]opts.BarData, len(values))
	for i, v := range values {
		if v == nil {
			out[i] = opts.BarData{Value: nil}
			continue
		}
		out[i] = opts.BarData{Value: *v}
	}
	return out
}

// NewLine builds a line chart on canvasID, or returns nil if the canvas is absent.
func (f *Factory) NewLine(doc Canvases, canvasID string, data Data, o Options) *charts.Line {
	s, ok := f.surface(doc, KindLine, canvasID)
	if !ok {
		return nil
	}
	r := resolve(KindLine, o)

	line := charts.NewLine()
	line.SetGlobalOptions(append(globalOpts(canvasID, "axis", r), yAxisOpts(r))...)
	line.SetXAxis(data.Labels)

	for _, ds := range data.Datasets {
		seriesOpts := []charts.SeriesOpts{
			charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(ds.Smooth)}),
		}
		if ds.BorderColor != "" {
			seriesOpts = append(seriesOpts,
				charts.WithLineStyleOpts(opts.LineStyle{Color: ds.BorderColor}),
				charts.WithItemStyleOpts(opts.ItemStyle{Color: ds.BorderColor}),
			)
		}
		line.AddSeries(ds.Label, lineData(ds.Data), seriesOpts...)
	}

	s.Attach(KindLine, line)
	return line
}

// NewBar builds a bar chart on canvasID, or returns nil if the canvas is absent.
func (f *Factory) NewBar(doc Canvases, canvasID string, data Data, o Options) *charts.Bar {
	s, ok := f.surface(doc, KindBar, canvasID)
	if !ok {
		return nil
	}
	r := resolve(KindBar, o)

	bar := charts.NewBar()
	bar.SetGlobalOptions(append(globalOpts(canvasID, "axis", r), yAxisOpts(r))...)
	bar.SetXAxis(data.Labels)

	for _, ds := range data.Datasets {
		var seriesOpts []charts.SeriesOpts
		if ds.BorderColor != "" {
			seriesOpts = append(seriesOpts, charts.WithItemStyleOpts(opts.ItemStyle{Color: ds.BorderColor}))
		}
		bar.AddSeries(ds.Label, barData(ds.Data), seriesOpts...)
	}

	s.Attach(KindBar, bar)
	return bar
}

// NewPie builds a pie chart on canvasID from the first dataset, labelling
// slices with data.Labels. Returns nil if the canvas is absent.
func (f *Factory) NewPie(doc Canvases, canvasID string, data Data, o Options) *charts.Pie {
	s, ok := f.surface(doc, KindPie, canvasID)
	if !ok {
		return nil
	}
	r := resolve(KindPie, o)

	pie := charts.NewPie()
	pie.SetGlobalOptions(globalOpts(canvasID, "item", r)...)

	var name string
	var slices []opts.PieData
	if len(data.Datasets) > 0 {
		ds := data.Datasets[0]
		name = ds.Label
		for i, v := range ds.Data {
			if v == nil || i >= len(data.Labels) {
				continue
			}
			slice := opts.PieData{Name: data.Labels[i], Value: *v}
			if i < len(ds.Colors) {
				slice.ItemStyle = &opts.ItemStyle{Color: ds.Colors[i]}
			}
			slices = append(slices, slice)
		}
	}
	pie.AddSeries(name, slices)

	s.Attach(KindPie, pie)
	return pie
}
