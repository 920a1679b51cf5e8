package mocks

import (
	"context"
	"errors"

	"github.com/godilite/saneamento-dashboard/internal/api"
	"github.com/godilite/saneamento-dashboard/internal/loader"
)

// MockDataLoader is a mock implementation of the DataLoader interface
// for testing the HTTP handlers.
type MockDataLoader struct {
	LoadIndicadoresPrincipaisFunc func(ctx context.Context, ano int) (api.IndicadoresPrincipais, error)
	LoadEvolucaoTemporalFunc      func(ctx context.Context) (api.EvolucaoTemporal, error)
	LoadRankingFunc               func(ctx context.Context, q loader.RankingQuery) (api.Ranking, error)
	LoadMunicipioDataFunc         func(ctx context.Context, municipioID string) (api.Municipio, error)
	LoadMunicipioEvolucaoFunc     func(ctx context.Context, municipioID string) (api.EvolucaoMunicipio, error)
	LoadDashboardFunc             func(ctx context.Context, ano int, indicador string) (loader.Dashboard, error)
}

// LoadIndicadoresPrincipais implements the DataLoader interface
func (m *MockDataLoader) LoadIndicadoresPrincipais(ctx context.Context, ano int) (api.IndicadoresPrincipais, error) {
	if m.LoadIndicadoresPrincipaisFunc != nil {
		return m.LoadIndicadoresPrincipaisFunc(ctx, ano)
	}
	return api.IndicadoresPrincipais{}, errors.New("LoadIndicadoresPrincipaisFunc not implemented")
}

// LoadEvolucaoTemporal implements the DataLoader interface
func (m *MockDataLoader) LoadEvolucaoTemporal(ctx context.Context) (api.EvolucaoTemporal, error) {
	if m.LoadEvolucaoTemporalFunc != nil {
		return m.LoadEvolucaoTemporalFunc(ctx)
	}
	return api.EvolucaoTemporal{}, errors.New("LoadEvolucaoTemporalFunc not implemented")
}

// LoadRanking implements the DataLoader interface
func (m *MockDataLoader) LoadRanking(ctx context.Context, q loader.RankingQuery) (api.Ranking, error) {
	if m.LoadRankingFunc != nil {
		return m.LoadRankingFunc(ctx, q)
	}
	return api.Ranking{}, errors.New("LoadRankingFunc not implemented")
}

// LoadMunicipioData implements the DataLoader interface
func (m *MockDataLoader) LoadMunicipioData(ctx context.Context, municipioID string) (api.Municipio, error) {
	if m.LoadMunicipioDataFunc != nil {
		return m.LoadMunicipioDataFunc(ctx, municipioID)
	}
	return api.Municipio{}, errors.New("LoadMunicipioDataFunc not implemented")
}

// LoadMunicipioEvolucao implements the DataLoader interface
func (m *MockDataLoader) LoadMunicipioEvolucao(ctx context.Context, municipioID string) (api.EvolucaoMunicipio, error) {
	if m.LoadMunicipioEvolucaoFunc != nil {
		return m.LoadMunicipioEvolucaoFunc(ctx, municipioID)
	}
	return api.EvolucaoMunicipio{}, errors.New("LoadMunicipioEvolucaoFunc not implemented")
}

// LoadDashboard implements the DataLoader interface
func (m *MockDataLoader) LoadDashboard(ctx context.Context, ano int, indicador string) (loader.Dashboard, error) {
	if m.LoadDashboardFunc != nil {
		return m.LoadDashboardFunc(ctx, ano, indicador)
	}
	return loader.Dashboard{}, errors.New("LoadDashboardFunc not implemented")
}

// MockPinger is a mock implementation of the Pinger interface.
type MockPinger struct {
	PingFunc func(ctx context.Context) error
}

// Ping implements the Pinger interface
func (m *MockPinger) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}
