package devapi

import (
	"context"

	"github.com/godilite/saneamento-dashboard/internal/api"
	"github.com/godilite/saneamento-dashboard/internal/service"
)

// SaneamentoService is the read side the REST handlers expose.
type SaneamentoService interface {
	GetIndicadoresPrincipais(ctx context.Context, ano int) (api.IndicadoresPrincipais, error)
	GetEvolucaoTemporal(ctx context.Context) (api.EvolucaoTemporal, error)
	GetRanking(ctx context.Context, p service.RankingParams) (api.Ranking, error)
	GetMunicipio(ctx context.Context, id string) (api.Municipio, error)
	GetEvolucaoMunicipio(ctx context.Context, id string) (api.EvolucaoMunicipio, error)
	SearchMunicipios(ctx context.Context, q string, limit int) ([]api.Municipio, error)
}
