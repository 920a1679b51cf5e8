package devapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/godilite/saneamento-dashboard/internal/service"
	"go.uber.org/zap"
)

const (
	defaultRequestTimeout = 10 * time.Second
	maxRankingLimit       = 100
	apiVersion            = "1.0.0"
)

type Handlers struct {
	service SaneamentoService
	logger  *zap.Logger
}

// NewHandlers initializes the REST handlers.
func NewHandlers(svc SaneamentoService, logger *zap.Logger) *Handlers {
	if svc == nil {
		panic("nil SaneamentoService provided to NewHandlers")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		service: svc,
		logger:  logger.Named("devapi-handler"),
	}
}

func detail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": msg})
}

// optionalInt parses an optional integer query parameter. ok is false when the
// parameter is present but not an integer within [lo, hi].
func optionalInt(c *gin.Context, key string, def, lo, hi int) (v int, ok bool) {
	raw, present := c.GetQuery(key)
	if !present || raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < lo || v > hi {
		return 0, false
	}
	return v, true
}

func (h *Handlers) handleError(ctx context.Context, c *gin.Context, op string, err error) {
	switch ctx.Err() {
	case context.Canceled:
		h.logger.Warn("request canceled", zap.String("op", op))
		c.Abort()
		return
	case context.DeadlineExceeded:
		h.logger.Warn("request timeout", zap.String("op", op))
		detail(c, http.StatusGatewayTimeout, "Tempo de resposta esgotado")
		return
	}

	switch {
	case errors.Is(err, service.ErrNotFound):
		h.logger.Info("not found", zap.String("op", op))
		detail(c, http.StatusNotFound, "Município não encontrado")
	case errors.Is(err, service.ErrInvalidIndicador):
		detail(c, http.StatusBadRequest, "Indicador inválido")
	case errors.Is(err, service.ErrStorageFailure):
		h.logger.Error("storage failure", zap.String("op", op), zap.Error(err))
		_ = c.Error(err)
		detail(c, http.StatusInternalServerError, "Erro interno do servidor")
	default:
		h.logger.Error("unexpected error", zap.String("op", op), zap.Error(err))
		_ = c.Error(err)
		detail(c, http.StatusInternalServerError, "Erro interno: "+err.Error())
	}
}

func (h *Handlers) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), defaultRequestTimeout)
}

// Info describes the API. The dashboard pings it to report backend health.
func (h *Handlers) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "API de Saneamento do Ceará",
		"version": apiVersion,
		"endpoints": gin.H{
			"municipios": "/api/v1/municipios",
			"analises":   "/api/v1/analises",
		},
	})
}

func (h *Handlers) IndicadoresPrincipais(c *gin.Context) {
	ano, ok := optionalInt(c, "ano", 0, 1, 9999)
	if !ok {
		detail(c, http.StatusUnprocessableEntity, "ano deve ser um inteiro positivo")
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	out, err := h.service.GetIndicadoresPrincipais(ctx, ano)
	if err != nil {
		h.handleError(ctx, c, "IndicadoresPrincipais", err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handlers) EvolucaoTemporal(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	out, err := h.service.GetEvolucaoTemporal(ctx)
	if err != nil {
		h.handleError(ctx, c, "EvolucaoTemporal", err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handlers) Ranking(c *gin.Context) {
	indicador := c.Query("indicador")
	if indicador == "" {
		detail(c, http.StatusUnprocessableEntity, "indicador é obrigatório")
		return
	}
	limit, ok := optionalInt(c, "limit", service.DefaultRankingLimit, 1, maxRankingLimit)
	if !ok {
		detail(c, http.StatusUnprocessableEntity, "limit deve estar entre 1 e 100")
		return
	}
	ano, ok := optionalInt(c, "ano", 0, 1, 9999)
	if !ok {
		detail(c, http.StatusUnprocessableEntity, "ano deve ser um inteiro positivo")
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	out, err := h.service.GetRanking(ctx, service.RankingParams{
		Indicador:   indicador,
		Ano:         ano,
		Ordem:       c.DefaultQuery("ordem", "desc"),
		Limit:       limit,
		MunicipioID: c.Query("municipio_id"),
	})
	if err != nil {
		h.handleError(ctx, c, "Ranking", err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handlers) SearchMunicipios(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		detail(c, http.StatusUnprocessableEntity, "q é obrigatório")
		return
	}
	limit, ok := optionalInt(c, "limit", service.DefaultSearchLimit, 1, service.MaxSearchLimit)
	if !ok {
		detail(c, http.StatusUnprocessableEntity, "limit deve estar entre 1 e 50")
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	out, err := h.service.SearchMunicipios(ctx, q, limit)
	if err != nil {
		h.handleError(ctx, c, "SearchMunicipios", err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handlers) Municipio(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	out, err := h.service.GetMunicipio(ctx, c.Param("id"))
	if err != nil {
		h.handleError(ctx, c, "Municipio", err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handlers) EvolucaoMunicipio(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	out, err := h.service.GetEvolucaoMunicipio(ctx, c.Param("id"))
	if err != nil {
		h.handleError(ctx, c, "EvolucaoMunicipio", err)
		return
	}
	c.JSON(http.StatusOK, out)
}
