package view

import (
	"embed"
	"html/template"

	"github.com/godilite/saneamento-dashboard/internal/api"
	"github.com/godilite/saneamento-dashboard/internal/format"
)

//go:embed templates/*.html
var templateFS embed.FS

var indicadorLabels = map[string]string{
	api.IndicadorAtendimentoAgua:  "Atendimento Água",
	api.IndicadorColetaEsgoto:     "Coleta Esgoto",
	api.IndicadorTratamentoEsgoto: "Tratamento Esgoto",
	api.IndicadorPerdaFaturamento: "Perda Faturamento",
}

// IndicadorLabel returns the display name of an indicator, or the name itself
// when it is unknown.
func IndicadorLabel(indicador string) string {
	if label, ok := indicadorLabels[indicador]; ok {
		return label
	}
	return indicador
}

var funcs = template.FuncMap{
	"percent":        format.Percent,
	"number":         format.Number,
	"currency":       format.Currency,
	"indicadorLabel": IndicadorLabel,
	"inc":            func(i int) int { return i + 1 },
	"deref": func(p *int) int {
		if p == nil {
			return 0
		}
		return *p
	},
	"slot": func(d *Document, id string) (template.HTML, error) {
		if d == nil {
			return "", nil
		}
		return d.Slot(id)
	},
}

// templates is built in init because the "slot" func renders through it.
var templates *template.Template

func init() {
	templates = template.Must(template.New("view").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}
