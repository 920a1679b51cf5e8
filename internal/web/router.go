package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter builds the gin engine serving pages, fragments and exports.
func NewRouter(h *Handlers, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("http")

	r := gin.New()
	r.Use(RequestID(), LoggingMiddleware(logger), Recovery(logger))

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/dashboard")
	})
	r.GET("/health", h.Health)

	dashboard := r.Group("/dashboard")
	{
		dashboard.GET("", h.Dashboard)
		dashboard.GET("/municipios/:id", h.Municipio)
		dashboard.GET("/analises", h.Analises)
	}

	fragments := r.Group("/fragments")
	{
		fragments.GET("/indicadores", h.IndicadoresFragment)
		fragments.GET("/ranking", h.RankingFragment)
		fragments.GET("/municipios/search", h.SearchFragment)
		fragments.GET("/ano-filter", h.AnoFilterFragment)
	}

	r.GET("/charts/evolucao.png", h.EvolucaoPNG)
	return r
}
