package devapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/godilite/saneamento-dashboard/internal/api"
	"github.com/godilite/saneamento-dashboard/internal/devapi/mocks"
	"github.com/godilite/saneamento-dashboard/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func serve(t *testing.T, svc SaneamentoService, target string) *httptest.ResponseRecorder {
	t.Helper()
	logger := zaptest.NewLogger(t)
	router := NewRouter(NewHandlers(svc, logger), logger)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func decodeDetail(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Detail
}

func TestNewHandlers(t *testing.T) {
	assert.Panics(t, func() { NewHandlers(nil, nil) })
	assert.NotNil(t, NewHandlers(&mocks.MockSaneamentoService{}, nil))
}

func TestInfo(t *testing.T) {
	w := serve(t, &mocks.MockSaneamentoService{}, "/api/v1")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"version":"1.0.0"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestIndicadoresPrincipaisHandler(t *testing.T) {
	v := 85.5

	t.Run("latest year", func(t *testing.T) {
		svc := &mocks.MockSaneamentoService{
			GetIndicadoresPrincipaisFunc: func(ctx context.Context, ano int) (api.IndicadoresPrincipais, error) {
				assert.Zero(t, ano)
				return api.IndicadoresPrincipais{MediaAtendimentoAgua: &v}, nil
			},
		}

		w := serve(t, svc, "/api/v1/analises/indicadores-principais")

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{
			"media_atendimento_agua": 85.5,
			"media_coleta_esgoto": null,
			"media_tratamento_esgoto": null,
			"media_perda_faturamento": null
		}`, w.Body.String())
	})

	t.Run("explicit year", func(t *testing.T) {
		svc := &mocks.MockSaneamentoService{
			GetIndicadoresPrincipaisFunc: func(ctx context.Context, ano int) (api.IndicadoresPrincipais, error) {
				assert.Equal(t, 2021, ano)
				return api.IndicadoresPrincipais{}, nil
			},
		}

		w := serve(t, svc, "/api/v1/analises/indicadores-principais?ano=2021")

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("malformed year", func(t *testing.T) {
		w := serve(t, &mocks.MockSaneamentoService{}, "/api/v1/analises/indicadores-principais?ano=abc")

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("storage failure", func(t *testing.T) {
		svc := &mocks.MockSaneamentoService{
			GetIndicadoresPrincipaisFunc: func(ctx context.Context, ano int) (api.IndicadoresPrincipais, error) {
				return api.IndicadoresPrincipais{}, fmt.Errorf("%w: medias: disk", service.ErrStorageFailure)
			},
		}

		w := serve(t, svc, "/api/v1/analises/indicadores-principais")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Erro interno do servidor", decodeDetail(t, w))
	})
}

func TestRankingHandler(t *testing.T) {
	t.Run("forwards parameters", func(t *testing.T) {
		svc := &mocks.MockSaneamentoService{
			GetRankingFunc: func(ctx context.Context, p service.RankingParams) (api.Ranking, error) {
				assert.Equal(t, service.RankingParams{
					Indicador:   api.IndicadorColetaEsgoto,
					Ano:         2021,
					Ordem:       "asc",
					Limit:       5,
					MunicipioID: "2304400",
				}, p)
				return api.Ranking{Ano: 2021, Indicador: p.Indicador, Ranking: []api.RankingItem{}}, nil
			},
		}

		w := serve(t, svc, "/api/v1/analises/ranking?indicador=indice_coleta_esgoto&ano=2021&ordem=asc&limit=5&municipio_id=2304400")

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"ano": 2021, "indicador": "indice_coleta_esgoto", "ranking": []}`, w.Body.String())
	})

	t.Run("defaults", func(t *testing.T) {
		svc := &mocks.MockSaneamentoService{
			GetRankingFunc: func(ctx context.Context, p service.RankingParams) (api.Ranking, error) {
				assert.Equal(t, "desc", p.Ordem)
				assert.Equal(t, service.DefaultRankingLimit, p.Limit)
				assert.Zero(t, p.Ano)
				return api.Ranking{Ranking: []api.RankingItem{}}, nil
			},
		}

		w := serve(t, svc, "/api/v1/analises/ranking?indicador=indice_atendimento_agua")

		assert.Equal(t, http.StatusOK, w.Code)
	})

	tests := []struct {
		name   string
		target string
		status int
		detail string
	}{
		{"missing indicador", "/api/v1/analises/ranking", http.StatusUnprocessableEntity, "indicador é obrigatório"},
		{"limit too large", "/api/v1/analises/ranking?indicador=indice_atendimento_agua&limit=101", http.StatusUnprocessableEntity, "limit deve estar entre 1 e 100"},
		{"limit zero", "/api/v1/analises/ranking?indicador=indice_atendimento_agua&limit=0", http.StatusUnprocessableEntity, "limit deve estar entre 1 e 100"},
		{"unknown indicador", "/api/v1/analises/ranking?indicador=populacao", http.StatusBadRequest, "Indicador inválido"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mocks.MockSaneamentoService{
				GetRankingFunc: func(ctx context.Context, p service.RankingParams) (api.Ranking, error) {
					return api.Ranking{}, fmt.Errorf("%w: %q", service.ErrInvalidIndicador, p.Indicador)
				},
			}

			w := serve(t, svc, tt.target)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.detail, decodeDetail(t, w))
		})
	}
}

func TestMunicipioHandlers(t *testing.T) {
	svc := &mocks.MockSaneamentoService{
		GetMunicipioFunc: func(ctx context.Context, id string) (api.Municipio, error) {
			if id != "2304400" {
				return api.Municipio{}, fmt.Errorf("municipio: %w", service.ErrNotFound)
			}
			return api.Municipio{ID: id, Nome: "Fortaleza", SiglaUF: "CE"}, nil
		},
		GetEvolucaoMunicipioFunc: func(ctx context.Context, id string) (api.EvolucaoMunicipio, error) {
			return api.EvolucaoMunicipio{}, fmt.Errorf("municipio: %w", service.ErrNotFound)
		},
	}

	t.Run("detail", func(t *testing.T) {
		w := serve(t, svc, "/api/v1/municipios/2304400")

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id_municipio": "2304400", "nome": "Fortaleza", "sigla_uf": "CE"}`, w.Body.String())
	})

	t.Run("detail not found", func(t *testing.T) {
		w := serve(t, svc, "/api/v1/municipios/999")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Município não encontrado", decodeDetail(t, w))
	})

	t.Run("evolucao not found", func(t *testing.T) {
		w := serve(t, svc, "/api/v1/municipios/999/evolucao")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestSearchHandler(t *testing.T) {
	t.Run("results", func(t *testing.T) {
		svc := &mocks.MockSaneamentoService{
			SearchMunicipiosFunc: func(ctx context.Context, q string, limit int) ([]api.Municipio, error) {
				assert.Equal(t, "Fort", q)
				assert.Equal(t, 5, limit)
				return []api.Municipio{{ID: "2304400", Nome: "Fortaleza"}}, nil
			},
		}

		w := serve(t, svc, "/api/v1/municipios/search?q=Fort&limit=5")

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[{"id_municipio": "2304400", "nome": "Fortaleza"}]`, w.Body.String())
	})

	t.Run("missing q", func(t *testing.T) {
		w := serve(t, &mocks.MockSaneamentoService{}, "/api/v1/municipios/search")

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("limit above 50", func(t *testing.T) {
		w := serve(t, &mocks.MockSaneamentoService{}, "/api/v1/municipios/search?q=Fort&limit=51")

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("unexpected error", func(t *testing.T) {
		svc := &mocks.MockSaneamentoService{
			SearchMunicipiosFunc: func(ctx context.Context, q string, limit int) ([]api.Municipio, error) {
				return nil, errors.New("boom")
			},
		}

		w := serve(t, svc, "/api/v1/municipios/search?q=Fort")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Erro interno: boom", decodeDetail(t, w))
	})
}
