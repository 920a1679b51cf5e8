package service

import (
	"context"

	"github.com/godilite/saneamento-dashboard/internal/repository/models"
)

// SaneamentoRepository defines the storage reads the service aggregates.
type SaneamentoRepository interface {
	GetMunicipio(ctx context.Context, id string) (models.Municipio, error)
	SearchMunicipios(ctx context.Context, term string, limit int) ([]models.Municipio, error)
	LatestAno(ctx context.Context) (int, error)
	GetMedias(ctx context.Context, ano int) (models.MediasAnuais, error)
	GetMediasPorAno(ctx context.Context) ([]models.MediasAnuais, error)
	GetRanking(ctx context.Context, ano int, indicador string, asc bool) ([]models.RankingRow, error)
	GetIndicadoresMunicipio(ctx context.Context, municipioID string) ([]models.IndicadoresAnuais, error)
}
