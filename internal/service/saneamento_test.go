package service

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"testing"

	"github.com/godilite/saneamento-dashboard/internal/api"
	"github.com/godilite/saneamento-dashboard/internal/repository"
	"github.com/godilite/saneamento-dashboard/internal/repository/models"
	"github.com/godilite/saneamento-dashboard/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func valid(f float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: f, Valid: true}
}

// TestNewSaneamentoService tests the constructor
func TestNewSaneamentoService(t *testing.T) {
	t.Run("valid parameters", func(t *testing.T) {
		mockRepo := &mocks.MockSaneamentoRepository{}

		service := NewSaneamentoService(mockRepo, zap.NewNop())

		assert.NotNil(t, service)
		assert.Equal(t, mockRepo, service.storage)
	})

	t.Run("nil storage panics", func(t *testing.T) {
		assert.Panics(t, func() {
			NewSaneamentoService(nil, zap.NewNop())
		})
	})

	t.Run("nil logger gets default", func(t *testing.T) {
		service := NewSaneamentoService(&mocks.MockSaneamentoRepository{}, nil)

		assert.NotNil(t, service.logger)
	})
}

func TestGetIndicadoresPrincipais(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	t.Run("explicit year", func(t *testing.T) {
		mockRepo := &mocks.MockSaneamentoRepository{
			GetMediasFunc: func(ctx context.Context, ano int) (models.MediasAnuais, error) {
				assert.Equal(t, 2021, ano)
				return models.MediasAnuais{
					Ano:              ano,
					AtendimentoAgua:  valid(85.5),
					ColetaEsgoto:     valid(math.NaN()),
					TratamentoEsgoto: valid(30),
				}, nil
			},
		}

		got, err := NewSaneamentoService(mockRepo, logger).GetIndicadoresPrincipais(ctx, 2021)

		require.NoError(t, err)
		require.NotNil(t, got.MediaAtendimentoAgua)
		assert.Equal(t, 85.5, *got.MediaAtendimentoAgua)
		assert.Nil(t, got.MediaColetaEsgoto)
		assert.Equal(t, 30.0, *got.MediaTratamentoEsgoto)
		assert.Nil(t, got.MediaPerdaFaturamento)
	})

	t.Run("defaults to latest year", func(t *testing.T) {
		mockRepo := &mocks.MockSaneamentoRepository{
			LatestAnoFunc: func(ctx context.Context) (int, error) { return 2022, nil },
			GetMediasFunc: func(ctx context.Context, ano int) (models.MediasAnuais, error) {
				assert.Equal(t, 2022, ano)
				return models.MediasAnuais{Ano: ano, AtendimentoAgua: valid(90)}, nil
			},
		}

		got, err := NewSaneamentoService(mockRepo, logger).GetIndicadoresPrincipais(ctx, 0)

		require.NoError(t, err)
		assert.Equal(t, 90.0, *got.MediaAtendimentoAgua)
	})

	t.Run("empty store yields zeros", func(t *testing.T) {
		mockRepo := &mocks.MockSaneamentoRepository{
			LatestAnoFunc: func(ctx context.Context) (int, error) { return 0, nil },
		}

		got, err := NewSaneamentoService(mockRepo, logger).GetIndicadoresPrincipais(ctx, 0)

		require.NoError(t, err)
		for _, v := range []*float64{got.MediaAtendimentoAgua, got.MediaColetaEsgoto, got.MediaTratamentoEsgoto, got.MediaPerdaFaturamento} {
			require.NotNil(t, v)
			assert.Zero(t, *v)
		}
	})

	t.Run("storage error", func(t *testing.T) {
		mockRepo := &mocks.MockSaneamentoRepository{
			GetMediasFunc: func(ctx context.Context, ano int) (models.MediasAnuais, error) {
				return models.MediasAnuais{}, errors.New("disk I/O error")
			},
		}

		_, err := NewSaneamentoService(mockRepo, logger).GetIndicadoresPrincipais(ctx, 2021)

		assert.ErrorIs(t, err, ErrStorageFailure)
	})
}

func TestGetEvolucaoTemporal(t *testing.T) {
	ctx := context.Background()

	t.Run("parallel series", func(t *testing.T) {
		mockRepo := &mocks.MockSaneamentoRepository{
			GetMediasPorAnoFunc: func(ctx context.Context) ([]models.MediasAnuais, error) {
				return []models.MediasAnuais{
					{Ano: 2020, AtendimentoAgua: valid(70), ColetaEsgoto: valid(30), TratamentoEsgoto: valid(20)},
					{Ano: 2021, AtendimentoAgua: valid(75), TratamentoEsgoto: valid(25)},
				}, nil
			},
		}

		got, err := NewSaneamentoService(mockRepo, zap.NewNop()).GetEvolucaoTemporal(ctx)

		require.NoError(t, err)
		assert.Equal(t, []int{2020, 2021}, got.Anos)
		require.Len(t, got.ColetaEsgoto, 2)
		assert.Equal(t, 30.0, *got.ColetaEsgoto[0])
		assert.Nil(t, got.ColetaEsgoto[1])
		assert.NoError(t, got.Validate())
	})

	t.Run("empty store", func(t *testing.T) {
		mockRepo := &mocks.MockSaneamentoRepository{
			GetMediasPorAnoFunc: func(ctx context.Context) ([]models.MediasAnuais, error) { return nil, nil },
		}

		got, err := NewSaneamentoService(mockRepo, zap.NewNop()).GetEvolucaoTemporal(ctx)

		require.NoError(t, err)
		assert.NotNil(t, got.Anos)
		assert.Empty(t, got.Anos)
	})
}

func TestGetRanking(t *testing.T) {
	ctx := context.Background()
	rows := []models.RankingRow{
		{MunicipioID: "2304400", Nome: "Fortaleza", SiglaUF: "CE", Valor: 90.5},
		{MunicipioID: "2312908", Nome: "Sobral", SiglaUF: "CE", Valor: 80.2},
		{MunicipioID: "2307304", Nome: "Juazeiro do Norte", SiglaUF: "CE", Valor: 70.1},
	}

	newRepo := func(wantAsc bool) *mocks.MockSaneamentoRepository {
		return &mocks.MockSaneamentoRepository{
			LatestAnoFunc: func(ctx context.Context) (int, error) { return 2022, nil },
			GetRankingFunc: func(ctx context.Context, ano int, indicador string, asc bool) ([]models.RankingRow, error) {
				assert.Equal(t, 2022, ano)
				assert.Equal(t, api.IndicadorAtendimentoAgua, indicador)
				assert.Equal(t, wantAsc, asc)
				return rows, nil
			},
		}
	}

	t.Run("limit and positions", func(t *testing.T) {
		service := NewSaneamentoService(newRepo(false), zap.NewNop())

		got, err := service.GetRanking(ctx, RankingParams{Indicador: api.IndicadorAtendimentoAgua, Limit: 2})

		require.NoError(t, err)
		assert.Equal(t, 2022, got.Ano)
		require.Len(t, got.Ranking, 2)
		assert.Equal(t, 1, got.Ranking[0].Posicao)
		assert.Equal(t, "Fortaleza", got.Ranking[0].Municipio.Nome)
		assert.Equal(t, 80.2, *got.Ranking[1].Valor)
		assert.Nil(t, got.PosicaoEspecifica)
	})

	t.Run("default limit", func(t *testing.T) {
		service := NewSaneamentoService(newRepo(false), zap.NewNop())

		got, err := service.GetRanking(ctx, RankingParams{Indicador: api.IndicadorAtendimentoAgua, Ordem: "desc"})

		require.NoError(t, err)
		assert.Len(t, got.Ranking, 3)
	})

	t.Run("ascending order", func(t *testing.T) {
		service := NewSaneamentoService(newRepo(true), zap.NewNop())

		_, err := service.GetRanking(ctx, RankingParams{Indicador: api.IndicadorAtendimentoAgua, Ordem: "asc"})

		require.NoError(t, err)
	})

	t.Run("posicao especifica beyond the limit", func(t *testing.T) {
		service := NewSaneamentoService(newRepo(false), zap.NewNop())

		got, err := service.GetRanking(ctx, RankingParams{
			Indicador:   api.IndicadorAtendimentoAgua,
			Limit:       1,
			MunicipioID: "2307304",
		})

		require.NoError(t, err)
		require.NotNil(t, got.PosicaoEspecifica)
		assert.Equal(t, 3, *got.PosicaoEspecifica.Posicao)
		assert.Equal(t, 3, got.PosicaoEspecifica.Total)
		assert.Equal(t, 70.1, *got.PosicaoEspecifica.Valor)
	})

	t.Run("posicao especifica for unranked municipality", func(t *testing.T) {
		service := NewSaneamentoService(newRepo(false), zap.NewNop())

		got, err := service.GetRanking(ctx, RankingParams{Indicador: api.IndicadorAtendimentoAgua, MunicipioID: "0000000"})

		require.NoError(t, err)
		require.NotNil(t, got.PosicaoEspecifica)
		assert.Nil(t, got.PosicaoEspecifica.Posicao)
		assert.Nil(t, got.PosicaoEspecifica.Valor)
	})

	t.Run("invalid indicador", func(t *testing.T) {
		service := NewSaneamentoService(&mocks.MockSaneamentoRepository{}, zap.NewNop())

		_, err := service.GetRanking(ctx, RankingParams{Indicador: "populacao"})

		assert.ErrorIs(t, err, ErrInvalidIndicador)
	})

	t.Run("empty store falls back to reference year", func(t *testing.T) {
		mockRepo := &mocks.MockSaneamentoRepository{
			LatestAnoFunc: func(ctx context.Context) (int, error) { return 0, nil },
			GetRankingFunc: func(ctx context.Context, ano int, indicador string, asc bool) ([]models.RankingRow, error) {
				assert.Equal(t, fallbackAno, ano)
				return nil, nil
			},
		}

		got, err := NewSaneamentoService(mockRepo, zap.NewNop()).GetRanking(ctx, RankingParams{Indicador: api.IndicadorColetaEsgoto})

		require.NoError(t, err)
		assert.NotNil(t, got.Ranking)
		assert.Empty(t, got.Ranking)
	})
}

func TestGetMunicipio(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mockRepo := &mocks.MockSaneamentoRepository{
			GetMunicipioFunc: func(ctx context.Context, id string) (models.Municipio, error) {
				return models.Municipio{
					ID:          id,
					Nome:        "Fortaleza",
					SiglaUF:     "CE",
					Mesorregiao: sql.NullString{String: "Metropolitana de Fortaleza", Valid: true},
				}, nil
			},
		}

		got, err := NewSaneamentoService(mockRepo, zap.NewNop()).GetMunicipio(ctx, "2304400")

		require.NoError(t, err)
		assert.Equal(t, "Fortaleza", got.Nome)
		require.NotNil(t, got.Mesorregiao)
		assert.Equal(t, "Metropolitana de Fortaleza", *got.Mesorregiao)
		assert.Nil(t, got.DDD)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo := &mocks.MockSaneamentoRepository{
			GetMunicipioFunc: func(ctx context.Context, id string) (models.Municipio, error) {
				return models.Municipio{}, repository.ErrNotFound
			},
		}

		_, err := NewSaneamentoService(mockRepo, zap.NewNop()).GetMunicipio(ctx, "999")

		assert.ErrorIs(t, err, ErrNotFound)
		assert.NotErrorIs(t, err, ErrStorageFailure)
	})
}

func TestGetEvolucaoMunicipio(t *testing.T) {
	ctx := context.Background()

	t.Run("history", func(t *testing.T) {
		mockRepo := &mocks.MockSaneamentoRepository{
			GetMunicipioFunc: func(ctx context.Context, id string) (models.Municipio, error) {
				return models.Municipio{ID: id, Nome: "Sobral"}, nil
			},
			GetIndicadoresMunicipioFunc: func(ctx context.Context, id string) ([]models.IndicadoresAnuais, error) {
				return []models.IndicadoresAnuais{
					{MunicipioID: id, Ano: 2021, AtendimentoAgua: valid(80)},
					{MunicipioID: id, Ano: 2022, AtendimentoAgua: valid(82), ColetaEsgoto: valid(40)},
				}, nil
			},
		}

		got, err := NewSaneamentoService(mockRepo, zap.NewNop()).GetEvolucaoMunicipio(ctx, "2312908")

		require.NoError(t, err)
		assert.Equal(t, "2312908", got.MunicipioID)
		require.Len(t, got.Evolucao, 2)
		assert.Nil(t, got.Evolucao[0].ColetaEsgoto)
		assert.Equal(t, 40.0, *got.Evolucao[1].ColetaEsgoto)
	})

	t.Run("unknown municipality", func(t *testing.T) {
		mockRepo := &mocks.MockSaneamentoRepository{
			GetMunicipioFunc: func(ctx context.Context, id string) (models.Municipio, error) {
				return models.Municipio{}, repository.ErrNotFound
			},
		}

		_, err := NewSaneamentoService(mockRepo, zap.NewNop()).GetEvolucaoMunicipio(ctx, "999")

		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestSearchMunicipios(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		limit     int
		wantLimit int
	}{
		{"default", 0, DefaultSearchLimit},
		{"explicit", 5, 5},
		{"clamped", 500, MaxSearchLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mocks.MockSaneamentoRepository{
				SearchMunicipiosFunc: func(ctx context.Context, term string, limit int) ([]models.Municipio, error) {
					assert.Equal(t, "Fort", term)
					assert.Equal(t, tt.wantLimit, limit)
					return []models.Municipio{{ID: "2304400", Nome: "Fortaleza", SiglaUF: "CE"}}, nil
				},
			}

			got, err := NewSaneamentoService(mockRepo, zap.NewNop()).SearchMunicipios(ctx, "Fort", tt.limit)

			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, "2304400", got[0].ID)
		})
	}
}
