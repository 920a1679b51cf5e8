package view

import (
	"html/template"
	"testing"

	"github.com/godilite/saneamento-dashboard/internal/chart"
	"github.com/godilite/saneamento-dashboard/internal/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDocument_SetHTML(t *testing.T) {
	doc := NewDocument().AddContainer("a").AddCanvas("c")

	assert.True(t, doc.SetHTML("a", "<p>1</p>"))
	assert.True(t, doc.SetHTML("a", "<p>2</p>"))
	html, err := doc.Slot("a")
	require.NoError(t, err)
	assert.Equal(t, template.HTML("<p>2</p>"), html)

	assert.False(t, doc.SetHTML("missing", "<p>x</p>"))
	assert.False(t, doc.SetHTML("c", "<p>x</p>"))
	assert.False(t, doc.Has("missing"))
}

func TestDocument_Canvas(t *testing.T) {
	doc := NewDocument().AddContainer("a").AddCanvas("c")

	s, ok := doc.Canvas("c")
	assert.True(t, ok)
	assert.NotNil(t, s)

	_, ok = doc.Canvas("a")
	assert.False(t, ok)
	_, ok = doc.Canvas("missing")
	assert.False(t, ok)

	assert.Nil(t, doc.Chart("c"))
	html, err := doc.Slot("c")
	require.NoError(t, err)
	assert.Contains(t, string(html), `id="c"`)
	assert.NotContains(t, string(html), "<script>")
}

func TestDocument_SlotUnknown(t *testing.T) {
	html, err := NewDocument().Slot("nada")
	require.NoError(t, err)
	assert.Empty(t, html)
}

func TestDocument_SlotSizedChart(t *testing.T) {
	doc := NewDocument().AddCanvas("c")
	data := chart.Data{
		Labels:   []string{"Fortaleza", "Sobral"},
		Datasets: []chart.Dataset{{Label: "Atendimento Água (%)", Data: []*float64{format.Float(90.5), format.Float(80.2)}}},
	}

	bar := chart.NewFactory(zap.NewNop()).NewBar(doc, "c", data, chart.Options{Width: "640px", Height: "320px"})
	require.NotNil(t, bar)

	html, err := doc.Slot("c")
	require.NoError(t, err)
	assert.Contains(t, string(html), "width: 640px")
	assert.Contains(t, string(html), "height: 320px")
	assert.Contains(t, string(html), "echarts.init")
}
