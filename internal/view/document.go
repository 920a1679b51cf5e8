// Package view renders fetched dashboard data into named page containers.
package view

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/godilite/saneamento-dashboard/internal/chart"
)

// Element ids shared between the page templates and the updater.
const (
	IndicadoresContainer   = "indicadores-principais"
	RankingContainer       = "ranking-container"
	EvolucaoCanvas         = "evolucao-chart"
	CoberturaCanvas        = "cobertura-chart"
	RankingCanvas          = "ranking-chart"
	SearchInput            = "municipio-search"
	SearchResultsContainer = "municipio-search-results"
	AnoFilter              = "ano-filter"
	MunicipioContainer     = "municipio-detalhe"
)

type slotKind int

const (
	containerSlot slotKind = iota
	canvasSlot
)

type slot struct {
	kind  slotKind
	html  template.HTML
	chart chart.Renderable
}

// Document is the set of addressable elements of one rendered page or
// fragment. Writes replace the previous content of an element.
type Document struct {
	slots map[string]*slot
}

func NewDocument() *Document {
	return &Document{slots: make(map[string]*slot)}
}

// AddContainer declares a container element and returns the document for chaining.
func (d *Document) AddContainer(ids ...string) *Document {
	for _, id := range ids {
		d.slots[id] = &slot{kind: containerSlot}
	}
	return d
}

// AddCanvas declares a canvas element.
func (d *Document) AddCanvas(ids ...string) *Document {
	for _, id := range ids {
		d.slots[id] = &slot{kind: canvasSlot}
	}
	return d
}

// Has reports whether an element with id exists.
func (d *Document) Has(id string) bool {
	_, ok := d.slots[id]
	return ok
}

// SetHTML replaces the content of container id. It returns false, changing
// nothing, when the document has no such container.
func (d *Document) SetHTML(id string, html template.HTML) bool {
	s, ok := d.slots[id]
	if !ok || s.kind != containerSlot {
		return false
	}
	s.html = html
	return true
}

// Canvas resolves a canvas element for drawing.
func (d *Document) Canvas(id string) (chart.Surface, bool) {
	s, ok := d.slots[id]
	if !ok || s.kind != canvasSlot {
		return nil, false
	}
	return &canvas{id: id, slot: s}, true
}

type canvas struct {
	id   string
	slot *slot
}

func (c *canvas) Attach(_ chart.Kind, r chart.Renderable) {
	c.slot.chart = r
}

// Chart returns the chart drawn on canvas id, if any.
func (d *Document) Chart(id string) chart.Renderable {
	s, ok := d.slots[id]
	if !ok {
		return nil
	}
	return s.chart
}

// Slot renders element id for inclusion in a page template. Unknown ids
// render as empty.
func (d *Document) Slot(id string) (template.HTML, error) {
	s, ok := d.slots[id]
	if !ok {
		return "", nil
	}
	if s.kind == containerSlot {
		return s.html, nil
	}
	return renderCanvas(id, s.chart)
}

type canvasView struct {
	ID     string
	Width  string
	Height string
	Option template.JS
}

func renderCanvas(id string, r chart.Renderable) (template.HTML, error) {
	v := canvasView{ID: id, Width: "100%", Height: "360px"}
	if r == nil {
		return execute("canvas", v)
	}

	switch c := r.(type) {
	case *charts.Line:
		v.Width, v.Height = c.Initialization.Width, c.Initialization.Height
	case *charts.Bar:
		v.Width, v.Height = c.Initialization.Width, c.Initialization.Height
	case *charts.Pie:
		v.Width, v.Height = c.Initialization.Width, c.Initialization.Height
	}

	r.Validate()
	option, err := json.Marshal(r.JSON())
	if err != nil {
		return "", fmt.Errorf("encode chart %s: %w", id, err)
	}
	v.Option = template.JS(option)
	return execute("canvas", v)
}

func execute(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("execute %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}
