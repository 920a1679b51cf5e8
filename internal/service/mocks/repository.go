package mocks

import (
	"context"
	"errors"

	"github.com/godilite/saneamento-dashboard/internal/repository/models"
)

// MockSaneamentoRepository is a mock implementation of the SaneamentoRepository
// interface for testing the service layer.
type MockSaneamentoRepository struct {
	GetMunicipioFunc            func(ctx context.Context, id string) (models.Municipio, error)
	SearchMunicipiosFunc        func(ctx context.Context, term string, limit int) ([]models.Municipio, error)
	LatestAnoFunc               func(ctx context.Context) (int, error)
	GetMediasFunc               func(ctx context.Context, ano int) (models.MediasAnuais, error)
	GetMediasPorAnoFunc         func(ctx context.Context) ([]models.MediasAnuais, error)
	GetRankingFunc              func(ctx context.Context, ano int, indicador string, asc bool) ([]models.RankingRow, error)
	GetIndicadoresMunicipioFunc func(ctx context.Context, municipioID string) ([]models.IndicadoresAnuais, error)
}

// GetMunicipio implements the SaneamentoRepository interface
func (m *MockSaneamentoRepository) GetMunicipio(ctx context.Context, id string) (models.Municipio, error) {
	if m.GetMunicipioFunc != nil {
		return m.GetMunicipioFunc(ctx, id)
	}
	return models.Municipio{}, errors.New("GetMunicipioFunc not implemented")
}

// SearchMunicipios implements the SaneamentoRepository interface
func (m *MockSaneamentoRepository) SearchMunicipios(ctx context.Context, term string, limit int) ([]models.Municipio, error) {
	if m.SearchMunicipiosFunc != nil {
		return m.SearchMunicipiosFunc(ctx, term, limit)
	}
	return nil, errors.New("SearchMunicipiosFunc not implemented")
}

// LatestAno implements the SaneamentoRepository interface
func (m *MockSaneamentoRepository) LatestAno(ctx context.Context) (int, error) {
	if m.LatestAnoFunc != nil {
		return m.LatestAnoFunc(ctx)
	}
	return 0, errors.New("LatestAnoFunc not implemented")
}

// GetMedias implements the SaneamentoRepository interface
func (m *MockSaneamentoRepository) GetMedias(ctx context.Context, ano int) (models.MediasAnuais, error) {
	if m.GetMediasFunc != nil {
		return m.GetMediasFunc(ctx, ano)
	}
	return models.MediasAnuais{}, errors.New("GetMediasFunc not implemented")
}

// GetMediasPorAno implements the SaneamentoRepository interface
func (m *MockSaneamentoRepository) GetMediasPorAno(ctx context.Context) ([]models.MediasAnuais, error) {
	if m.GetMediasPorAnoFunc != nil {
		return m.GetMediasPorAnoFunc(ctx)
	}
	return nil, errors.New("GetMediasPorAnoFunc not implemented")
}

// GetRanking implements the SaneamentoRepository interface
func (m *MockSaneamentoRepository) GetRanking(ctx context.Context, ano int, indicador string, asc bool) ([]models.RankingRow, error) {
	if m.GetRankingFunc != nil {
		return m.GetRankingFunc(ctx, ano, indicador, asc)
	}
	return nil, errors.New("GetRankingFunc not implemented")
}

// GetIndicadoresMunicipio implements the SaneamentoRepository interface
func (m *MockSaneamentoRepository) GetIndicadoresMunicipio(ctx context.Context, municipioID string) ([]models.IndicadoresAnuais, error) {
	if m.GetIndicadoresMunicipioFunc != nil {
		return m.GetIndicadoresMunicipioFunc(ctx, municipioID)
	}
	return nil, errors.New("GetIndicadoresMunicipioFunc not implemented")
}
