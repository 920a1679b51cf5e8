package view

import (
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/godilite/saneamento-dashboard/internal/api"
	"github.com/godilite/saneamento-dashboard/internal/chart"
	"github.com/godilite/saneamento-dashboard/internal/format"
	"go.uber.org/zap"
)

const evolucaoTitle = "Evolução dos Indicadores"

// Series colours of the evolution chart.
const (
	ColorAtendimentoAgua  = "rgb(75, 192, 192)"
	ColorColetaEsgoto     = "rgb(255, 99, 132)"
	ColorTratamentoEsgoto = "rgb(255, 205, 86)"
	ColorPerdaFaturamento = "rgb(54, 162, 235)"
)

type indicadorCard struct {
	Label string
	Class string
	Value *float64
}

// Updater writes rendered fragments into document containers. Every method
// is a no-op when its target element does not exist, and every write replaces
// the previous content.
type Updater struct {
	charts *chart.Factory
	logger *zap.Logger
}

func NewUpdater(charts *chart.Factory, logger *zap.Logger) *Updater {
	if charts == nil {
		panic("nil chart factory provided to NewUpdater")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Updater{
		charts: charts,
		logger: logger.Named("view-updater"),
	}
}

func (u *Updater) render(doc *Document, containerID, name string, data any) bool {
	if doc == nil || !doc.Has(containerID) {
		return false
	}
	html, err := execute(name, data)
	if err != nil {
		u.logger.Error("render failed",
			zap.String("template", name),
			zap.String("container", containerID),
			zap.Error(err))
		return false
	}
	return doc.SetHTML(containerID, html)
}

// ShowLoading replaces the container content with a loading placeholder.
func (u *Updater) ShowLoading(doc *Document, containerID string) {
	u.render(doc, containerID, "loading", nil)
}

// ShowError replaces the container content with an error notice.
func (u *Updater) ShowError(doc *Document, containerID, message string) {
	u.render(doc, containerID, "error", message)
}

// UpdateIndicadoresPrincipais renders the four headline indicator cards.
// Averages without data count as 0.
func (u *Updater) UpdateIndicadoresPrincipais(doc *Document, data api.IndicadoresPrincipais) {
	cards := []indicadorCard{
		{Label: "Atendimento Água", Class: "agua", Value: orZero(data.MediaAtendimentoAgua)},
		{Label: "Coleta Esgoto", Class: "esgoto", Value: orZero(data.MediaColetaEsgoto)},
		{Label: "Tratamento Esgoto", Class: "esgoto", Value: orZero(data.MediaTratamentoEsgoto)},
		{Label: "Perda Faturamento", Value: orZero(data.MediaPerdaFaturamento)},
	}
	u.render(doc, IndicadoresContainer, "indicadores", cards)
}

func orZero(v *float64) *float64 {
	if v == nil {
		return format.Float(0)
	}
	return v
}

// UpdateRanking renders one entry per ranking item, numbered from 1 in list
// order, followed by the filtered municipality's position when present.
func (u *Updater) UpdateRanking(doc *Document, containerID string, ranking api.Ranking) {
	u.render(doc, containerID, "ranking", ranking)
}

// UpdateMunicipioSearchResults lists search matches, each linking to the
// municipality page.
func (u *Updater) UpdateMunicipioSearchResults(doc *Document, results []api.Municipio) {
	u.render(doc, SearchResultsContainer, "search-results", results)
}

// UpdateMunicipio renders the municipality detail block.
func (u *Updater) UpdateMunicipio(doc *Document, m api.Municipio) {
	u.render(doc, MunicipioContainer, "municipio", m)
}

// EvolucaoData maps the per-year series onto the three evolution datasets.
func EvolucaoData(evo api.EvolucaoTemporal) chart.Data {
	labels := make([]string, len(evo.Anos))
	for i, ano := range evo.Anos {
		labels[i] = strconv.Itoa(ano)
	}
	return chart.Data{
		Labels: labels,
		Datasets: []chart.Dataset{
			{Label: "Atendimento Água (%)", Data: evo.AtendimentoAgua, BorderColor: ColorAtendimentoAgua},
			{Label: "Coleta Esgoto (%)", Data: evo.ColetaEsgoto, BorderColor: ColorColetaEsgoto},
			{Label: "Tratamento Esgoto (%)", Data: evo.TratamentoEsgoto, BorderColor: ColorTratamentoEsgoto},
		},
	}
}

// EvolucaoOptions are the chart options shared by the page chart and the PNG export.
func EvolucaoOptions() chart.Options {
	maxY := 100.0
	return chart.Options{Title: evolucaoTitle, MaxY: &maxY}
}

// CreateEvolucaoChart draws the three-series evolution chart on canvasID.
func (u *Updater) CreateEvolucaoChart(doc *Document, canvasID string, evo api.EvolucaoTemporal) *charts.Line {
	return u.charts.NewLine(doc, canvasID, EvolucaoData(evo), EvolucaoOptions())
}

// CreateRankingChart draws the ranking values as bars named by municipality.
func (u *Updater) CreateRankingChart(doc *Document, canvasID string, ranking api.Ranking) *charts.Bar {
	data := chart.Data{
		Labels:   make([]string, len(ranking.Ranking)),
		Datasets: []chart.Dataset{{Label: IndicadorLabel(ranking.Indicador) + " (%)", BorderColor: ColorPerdaFaturamento}},
	}
	values := make([]*float64, len(ranking.Ranking))
	for i, item := range ranking.Ranking {
		data.Labels[i] = item.Municipio.Nome
		values[i] = item.Valor
	}
	data.Datasets[0].Data = values

	title := "Ranking: " + IndicadorLabel(ranking.Indicador)
	if ranking.Ano > 0 {
		title += " (" + strconv.Itoa(ranking.Ano) + ")"
	}
	return u.charts.NewBar(doc, canvasID, data, chart.Options{Title: title, HideLegend: true})
}

// CreateCoberturaChart splits the population into served and unserved by the
// state-wide water service average.
func (u *Updater) CreateCoberturaChart(doc *Document, canvasID string, data api.IndicadoresPrincipais) *charts.Pie {
	var values []*float64
	if v := data.MediaAtendimentoAgua; v != nil {
		rest := 100 - *v
		values = []*float64{v, &rest}
	}
	return u.charts.NewPie(doc, canvasID, chart.Data{
		Labels: []string{"Atendida", "Não atendida"},
		Datasets: []chart.Dataset{{
			Label:  "Cobertura de Água (%)",
			Data:   values,
			Colors: []string{ColorAtendimentoAgua, ColorColetaEsgoto},
		}},
	}, chart.Options{Title: "Cobertura de Água"})
}
