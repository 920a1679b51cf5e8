package view

import (
	"bytes"
	"fmt"
	"io"

	"github.com/godilite/saneamento-dashboard/internal/api"
)

// Page names, used both as template suffix and as the data-page marker the
// year filter reports back.
const (
	PageDashboard = "dashboard"
	PageMunicipio = "municipio"
	PageAnalises  = "analises"
)

// Page is the data a full page layout is executed with.
type Page struct {
	Name        string
	Title       string
	Doc         *Document
	Ano         int
	Anos        []int
	Indicador   string
	Indicadores []string
	Limit       int
	MunicipioID string
}

// NewDashboardDocument declares the elements of the home page.
func NewDashboardDocument() *Document {
	return NewDocument().
		AddContainer(IndicadoresContainer, RankingContainer, SearchResultsContainer).
		AddCanvas(EvolucaoCanvas)
}

// NewMunicipioDocument declares the elements of the municipality page.
func NewMunicipioDocument() *Document {
	return NewDocument().
		AddContainer(MunicipioContainer, RankingContainer, SearchResultsContainer).
		AddCanvas(EvolucaoCanvas)
}

// NewAnalisesDocument declares the elements of the analyses page.
func NewAnalisesDocument() *Document {
	return NewDocument().
		AddContainer(RankingContainer, SearchResultsContainer).
		AddCanvas(RankingCanvas, CoberturaCanvas)
}

// RenderPage executes the layout of p.Name into w. The output is buffered so
// that a template failure writes nothing.
func RenderPage(w io.Writer, p Page) error {
	if p.Indicadores == nil {
		p.Indicadores = api.Indicadores
	}
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "page-"+p.Name, p); err != nil {
		return fmt.Errorf("render page %s: %w", p.Name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
