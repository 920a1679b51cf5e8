package web

import (
	"context"

	"github.com/godilite/saneamento-dashboard/internal/api"
	"github.com/godilite/saneamento-dashboard/internal/loader"
	"github.com/godilite/saneamento-dashboard/internal/search"
)

// DataLoader defines the backend reads the pages and fragments are built from.
type DataLoader interface {
	LoadIndicadoresPrincipais(ctx context.Context, ano int) (api.IndicadoresPrincipais, error)
	LoadEvolucaoTemporal(ctx context.Context) (api.EvolucaoTemporal, error)
	LoadRanking(ctx context.Context, q loader.RankingQuery) (api.Ranking, error)
	LoadMunicipioData(ctx context.Context, municipioID string) (api.Municipio, error)
	LoadMunicipioEvolucao(ctx context.Context, municipioID string) (api.EvolucaoMunicipio, error)
	LoadDashboard(ctx context.Context, ano int, indicador string) (loader.Dashboard, error)
}

// Sessions hands out the per-visitor search session.
type Sessions interface {
	Session(id string) *search.Session
}

// Pinger reports whether the backend API is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
