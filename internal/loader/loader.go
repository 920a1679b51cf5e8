package loader

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/godilite/saneamento-dashboard/internal/api"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const DefaultRankingLimit = 10

// Ranking orders accepted by the backend.
const (
	OrdemAsc  = "asc"
	OrdemDesc = "desc"
)

// RankingQuery selects a ranking. Zero Limit means DefaultRankingLimit, zero
// Ano means the most recent year known to the backend and an empty Ordem
// leaves the backend default (descending).
type RankingQuery struct {
	Indicador   string
	Limit       int
	MunicipioID string
	Ano         int
	Ordem       string
}

func (q RankingQuery) endpoint() string {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultRankingLimit
	}
	v := url.Values{}
	v.Set("indicador", q.Indicador)
	v.Set("limit", strconv.Itoa(limit))
	if q.MunicipioID != "" {
		v.Set("municipio_id", q.MunicipioID)
	}
	if q.Ano > 0 {
		v.Set("ano", strconv.Itoa(q.Ano))
	}
	if q.Ordem != "" {
		v.Set("ordem", q.Ordem)
	}
	return "/analises/ranking?" + v.Encode()
}

// DataLoader exposes one accessor per backend endpoint the dashboard reads.
// Results are returned as decoded; failures are logged and returned unchanged.
type DataLoader struct {
	api    Fetcher
	logger *zap.Logger
}

func NewDataLoader(api Fetcher, logger *zap.Logger) *DataLoader {
	if api == nil {
		panic("nil Fetcher provided to NewDataLoader")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DataLoader{
		api:    api,
		logger: logger.Named("data-loader"),
	}
}

func load[T any](ctx context.Context, l *DataLoader, op, endpoint string) (T, error) {
	var out T
	if err := l.api.GetJSON(ctx, endpoint, &out); err != nil {
		l.logger.Error("load failed",
			zap.String("op", op),
			zap.String("endpoint", endpoint),
			zap.Error(err))
		var zero T
		return zero, err
	}
	return out, nil
}

// LoadIndicadoresPrincipais fetches the headline averages; ano <= 0 selects the latest year.
func (l *DataLoader) LoadIndicadoresPrincipais(ctx context.Context, ano int) (api.IndicadoresPrincipais, error) {
	endpoint := "/analises/indicadores-principais"
	if ano > 0 {
		endpoint += "?ano=" + strconv.Itoa(ano)
	}
	return load[api.IndicadoresPrincipais](ctx, l, "LoadIndicadoresPrincipais", endpoint)
}

func (l *DataLoader) LoadEvolucaoTemporal(ctx context.Context) (api.EvolucaoTemporal, error) {
	return load[api.EvolucaoTemporal](ctx, l, "LoadEvolucaoTemporal", "/analises/evolucao-temporal")
}

func (l *DataLoader) LoadRanking(ctx context.Context, q RankingQuery) (api.Ranking, error) {
	return load[api.Ranking](ctx, l, "LoadRanking", q.endpoint())
}

func (l *DataLoader) LoadMunicipioData(ctx context.Context, municipioID string) (api.Municipio, error) {
	return load[api.Municipio](ctx, l, "LoadMunicipioData", "/municipios/"+url.PathEscape(municipioID))
}

func (l *DataLoader) LoadMunicipioEvolucao(ctx context.Context, municipioID string) (api.EvolucaoMunicipio, error) {
	return load[api.EvolucaoMunicipio](ctx, l, "LoadMunicipioEvolucao", "/municipios/"+url.PathEscape(municipioID)+"/evolucao")
}

// SearchMunicipios looks municipalities up by (partial) name.
func (l *DataLoader) SearchMunicipios(ctx context.Context, q string) ([]api.Municipio, error) {
	list, err := load[api.MunicipioList](ctx, l, "SearchMunicipios", "/municipios/search?q="+url.QueryEscape(q))
	if err != nil {
		return nil, err
	}
	return []api.Municipio(list), nil
}

// Dashboard bundles everything the home page renders.
type Dashboard struct {
	Indicadores api.IndicadoresPrincipais
	Evolucao    api.EvolucaoTemporal
	Ranking     api.Ranking
}

// LoadDashboard fetches the home page data concurrently. The first failure
// cancels the remaining requests and is returned.
func (l *DataLoader) LoadDashboard(ctx context.Context, ano int, indicador string) (Dashboard, error) {
	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		v, err := l.LoadIndicadoresPrincipais(gctx, ano)
		d.Indicadores = v
		return err
	})
	g.Go(func() error {
		v, err := l.LoadEvolucaoTemporal(gctx)
		d.Evolucao = v
		return err
	})
	g.Go(func() error {
		v, err := l.LoadRanking(gctx, RankingQuery{Indicador: indicador, Ano: ano})
		d.Ranking = v
		return err
	})

	if err := g.Wait(); err != nil {
		return Dashboard{}, fmt.Errorf("load dashboard: %w", err)
	}
	return d, nil
}
