package devapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/godilite/saneamento-dashboard/internal/web"
	"go.uber.org/zap"
)

// BasePath is where the REST API is mounted.
const BasePath = "/api/v1"

// NewRouter builds the gin engine serving the REST API under BasePath.
func NewRouter(h *Handlers, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("devapi-http")

	r := gin.New()
	r.Use(web.RequestID(), web.LoggingMiddleware(logger), web.Recovery(logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "message": "API funcionando corretamente"})
	})

	v1 := r.Group(BasePath)
	{
		v1.GET("", h.Info)

		analises := v1.Group("/analises")
		analises.GET("/indicadores-principais", h.IndicadoresPrincipais)
		analises.GET("/evolucao-temporal", h.EvolucaoTemporal)
		analises.GET("/ranking", h.Ranking)

		municipios := v1.Group("/municipios")
		municipios.GET("/search", h.SearchMunicipios)
		municipios.GET("/:id", h.Municipio)
		municipios.GET("/:id/evolucao", h.EvolucaoMunicipio)
	}
	return r
}
