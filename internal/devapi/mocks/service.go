package mocks

import (
	"context"
	"errors"

	"github.com/godilite/saneamento-dashboard/internal/api"
	"github.com/godilite/saneamento-dashboard/internal/service"
)

// MockSaneamentoService is a mock implementation of the SaneamentoService
// interface for testing the REST handlers.
type MockSaneamentoService struct {
	GetIndicadoresPrincipaisFunc func(ctx context.Context, ano int) (api.IndicadoresPrincipais, error)
	GetEvolucaoTemporalFunc      func(ctx context.Context) (api.EvolucaoTemporal, error)
	GetRankingFunc               func(ctx context.Context, p service.RankingParams) (api.Ranking, error)
	GetMunicipioFunc             func(ctx context.Context, id string) (api.Municipio, error)
	GetEvolucaoMunicipioFunc     func(ctx context.Context, id string) (api.EvolucaoMunicipio, error)
	SearchMunicipiosFunc         func(ctx context.Context, q string, limit int) ([]api.Municipio, error)
}

func (m *MockSaneamentoService) GetIndicadoresPrincipais(ctx context.Context, ano int) (api.IndicadoresPrincipais, error) {
	if m.GetIndicadoresPrincipaisFunc != nil {
		return m.GetIndicadoresPrincipaisFunc(ctx, ano)
	}
	return api.IndicadoresPrincipais{}, errors.New("GetIndicadoresPrincipaisFunc not implemented")
}

func (m *MockSaneamentoService) GetEvolucaoTemporal(ctx context.Context) (api.EvolucaoTemporal, error) {
	if m.GetEvolucaoTemporalFunc != nil {
		return m.GetEvolucaoTemporalFunc(ctx)
	}
	return api.EvolucaoTemporal{}, errors.New("GetEvolucaoTemporalFunc not implemented")
}

func (m *MockSaneamentoService) GetRanking(ctx context.Context, p service.RankingParams) (api.Ranking, error) {
	if m.GetRankingFunc != nil {
		return m.GetRankingFunc(ctx, p)
	}
	return api.Ranking{}, errors.New("GetRankingFunc not implemented")
}

func (m *MockSaneamentoService) GetMunicipio(ctx context.Context, id string) (api.Municipio, error) {
	if m.GetMunicipioFunc != nil {
		return m.GetMunicipioFunc(ctx, id)
	}
	return api.Municipio{}, errors.New("GetMunicipioFunc not implemented")
}

func (m *MockSaneamentoService) GetEvolucaoMunicipio(ctx context.Context, id string) (api.EvolucaoMunicipio, error) {
	if m.GetEvolucaoMunicipioFunc != nil {
		return m.GetEvolucaoMunicipioFunc(ctx, id)
	}
	return api.EvolucaoMunicipio{}, errors.New("GetEvolucaoMunicipioFunc not implemented")
}

func (m *MockSaneamentoService) SearchMunicipios(ctx context.Context, q string, limit int) ([]api.Municipio, error) {
	if m.SearchMunicipiosFunc != nil {
		return m.SearchMunicipiosFunc(ctx, q, limit)
	}
	return nil, errors.New("SearchMunicipiosFunc not implemented")
}
