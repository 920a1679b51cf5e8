package web

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/godilite/saneamento-dashboard/internal/api"
	"github.com/godilite/saneamento-dashboard/internal/chart"
	"github.com/godilite/saneamento-dashboard/internal/loader"
	"github.com/godilite/saneamento-dashboard/internal/search"
	"github.com/godilite/saneamento-dashboard/internal/view"
	"go.uber.org/zap"
)

const (
	SessionCookie    = "search_session"
	maxRankingLimit  = 100
	htmlContentType  = "text/html; charset=utf-8"
	genericLoadError = "Não foi possível carregar os dados"
)

type Handlers struct {
	loader   DataLoader
	updater  *view.Updater
	sessions Sessions
	pinger   Pinger
	logger   *zap.Logger
}

// NewHandlers wires the page, fragment and export handlers. pinger may be nil,
// in which case /health does not probe the backend.
func NewHandlers(dataLoader DataLoader, updater *view.Updater, sessions Sessions, pinger Pinger, logger *zap.Logger) *Handlers {
	if dataLoader == nil {
		panic("nil DataLoader provided to NewHandlers")
	}
	if updater == nil {
		panic("nil Updater provided to NewHandlers")
	}
	if sessions == nil {
		panic("nil Sessions provided to NewHandlers")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		loader:   dataLoader,
		updater:  updater,
		sessions: sessions,
		pinger:   pinger,
		logger:   logger.Named("web"),
	}
}

// errorMessage is the text shown in a container when a load fails. Status
// errors are shown as-is; anything else gets a generic notice.
func errorMessage(err error) string {
	var statusErr *api.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Error()
	}
	return genericLoadError
}

func queryInt(c *gin.Context, key string) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func queryIndicador(c *gin.Context) string {
	indicador := c.Query("indicador")
	if !api.IsIndicador(indicador) {
		return api.IndicadorAtendimentoAgua
	}
	return indicador
}

func rankingQuery(c *gin.Context) loader.RankingQuery {
	q := loader.RankingQuery{
		Indicador:   queryIndicador(c),
		Limit:       min(queryInt(c, "limit"), maxRankingLimit),
		MunicipioID: c.Query("municipio_id"),
		Ano:         queryInt(c, "ano"),
	}
	if ordem := c.Query("ordem"); ordem == loader.OrdemAsc || ordem == loader.OrdemDesc {
		q.Ordem = ordem
	}
	return q
}

// searchSession returns the visitor's search session, issuing the cookie
// when the session is new so later keystrokes share its debounce.
func (h *Handlers) searchSession(c *gin.Context) *search.Session {
	cookie, _ := c.Cookie(SessionCookie)
	session := h.sessions.Session(cookie)
	if session.ID() != cookie {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, session.ID(), 0, "/", "", false, true)
	}
	return session
}

func (h *Handlers) renderPage(c *gin.Context, status int, page view.Page) {
	h.searchSession(c)

	var buf bytes.Buffer
	if err := view.RenderPage(&buf, page); err != nil {
		h.logger.Error("page render failed", zap.String("page", page.Name), zap.Error(err))
		_ = c.Error(err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(status, htmlContentType, buf.Bytes())
}

func (h *Handlers) renderFragment(c *gin.Context, status int, doc *view.Document, id string) {
	html, err := doc.Slot(id)
	if err != nil {
		h.logger.Error("fragment render failed", zap.String("container", id), zap.Error(err))
		_ = c.Error(err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(status, htmlContentType, []byte(html))
}

// Health reports liveness and, when a pinger is configured, backend reachability.
func (h *Handlers) Health(c *gin.Context) {
	if h.pinger != nil {
		if err := h.pinger.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"message": "API de dados indisponível",
				"error":   err.Error(),
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "message": "Dashboard funcionando corretamente"})
}

// Dashboard renders the home page: headline indicators, evolution chart and
// the ranking of the selected indicator.
func (h *Handlers) Dashboard(c *gin.Context) {
	ano := queryInt(c, "ano")
	indicador := queryIndicador(c)
	doc := view.NewDashboardDocument()
	status := http.StatusOK

	d, err := h.loader.LoadDashboard(c.Request.Context(), ano, indicador)
	if err != nil {
		_ = c.Error(err)
		status = http.StatusBadGateway
		h.updater.ShowError(doc, view.IndicadoresContainer, errorMessage(err))
		h.updater.ShowError(doc, view.RankingContainer, errorMessage(err))
	} else {
		h.updater.UpdateIndicadoresPrincipais(doc, d.Indicadores)
		h.updater.CreateEvolucaoChart(doc, view.EvolucaoCanvas, d.Evolucao)
		h.updater.UpdateRanking(doc, view.RankingContainer, d.Ranking)
	}

	h.renderPage(c, status, view.Page{
		Name:      view.PageDashboard,
		Title:     "Dashboard",
		Doc:       doc,
		Ano:       ano,
		Anos:      d.Evolucao.Anos,
		Indicador: indicador,
	})
}

// Municipio renders the detail page of one municipality.
func (h *Handlers) Municipio(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	indicador := queryIndicador(c)
	doc := view.NewMunicipioDocument()
	status := http.StatusOK

	fail := func(container string, err error) {
		_ = c.Error(err)
		if status == http.StatusOK {
			status = http.StatusBadGateway
		}
		h.updater.ShowError(doc, container, errorMessage(err))
	}

	title := "Município"
	m, err := h.loader.LoadMunicipioData(ctx, id)
	if err != nil {
		var statusErr *api.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			status = http.StatusNotFound
		}
		fail(view.MunicipioContainer, err)
		h.renderPage(c, status, view.Page{Name: view.PageMunicipio, Title: title, Doc: doc, Indicador: indicador, MunicipioID: id})
		return
	}
	title = m.Nome
	h.updater.UpdateMunicipio(doc, m)

	if evo, err := h.loader.LoadMunicipioEvolucao(ctx, id); err != nil {
		_ = c.Error(err)
		status = http.StatusBadGateway
	} else {
		h.updater.CreateEvolucaoChart(doc, view.EvolucaoCanvas, evo.Series())
	}

	ranking, err := h.loader.LoadRanking(ctx, loader.RankingQuery{Indicador: indicador, MunicipioID: id})
	if err != nil {
		fail(view.RankingContainer, err)
	} else {
		h.updater.UpdateRanking(doc, view.RankingContainer, ranking)
	}

	h.renderPage(c, status, view.Page{
		Name:        view.PageMunicipio,
		Title:       title,
		Doc:         doc,
		Indicador:   indicador,
		MunicipioID: id,
	})
}

// Analises renders the ranking analysis page.
func (h *Handlers) Analises(c *gin.Context) {
	ctx := c.Request.Context()
	q := rankingQuery(c)
	doc := view.NewAnalisesDocument()
	status := http.StatusOK

	if ranking, err := h.loader.LoadRanking(ctx, q); err != nil {
		_ = c.Error(err)
		status = http.StatusBadGateway
		h.updater.ShowError(doc, view.RankingContainer, errorMessage(err))
	} else {
		h.updater.UpdateRanking(doc, view.RankingContainer, ranking)
		h.updater.CreateRankingChart(doc, view.RankingCanvas, ranking)
	}

	if indicadores, err := h.loader.LoadIndicadoresPrincipais(ctx, q.Ano); err != nil {
		_ = c.Error(err)
		status = http.StatusBadGateway
	} else {
		h.updater.CreateCoberturaChart(doc, view.CoberturaCanvas, indicadores)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = loader.DefaultRankingLimit
	}
	h.renderPage(c, status, view.Page{
		Name:      view.PageAnalises,
		Title:     "Análises",
		Doc:       doc,
		Ano:       q.Ano,
		Indicador: q.Indicador,
		Limit:     limit,
	})
}

func (h *Handlers) indicadoresFragment(c *gin.Context, ano int) {
	doc := view.NewDocument().AddContainer(view.IndicadoresContainer)
	status := http.StatusOK

	data, err := h.loader.LoadIndicadoresPrincipais(c.Request.Context(), ano)
	if err != nil {
		_ = c.Error(err)
		status = http.StatusBadGateway
		h.updater.ShowError(doc, view.IndicadoresContainer, errorMessage(err))
	} else {
		h.updater.UpdateIndicadoresPrincipais(doc, data)
	}
	h.renderFragment(c, status, doc, view.IndicadoresContainer)
}

// IndicadoresFragment renders the indicator cards for ?ano=.
func (h *Handlers) IndicadoresFragment(c *gin.Context) {
	h.indicadoresFragment(c, queryInt(c, "ano"))
}

// AnoFilterFragment reacts to a year filter change. Only the dashboard page
// reloads its indicators; other pages get 204 and keep their content.
func (h *Handlers) AnoFilterFragment(c *gin.Context) {
	if c.Query("page") != view.PageDashboard {
		c.Status(http.StatusNoContent)
		return
	}
	h.indicadoresFragment(c, queryInt(c, "ano"))
}

// RankingFragment renders a ranking list for the query parameters.
func (h *Handlers) RankingFragment(c *gin.Context) {
	doc := view.NewDocument().AddContainer(view.RankingContainer)
	status := http.StatusOK

	ranking, err := h.loader.LoadRanking(c.Request.Context(), rankingQuery(c))
	if err != nil {
		_ = c.Error(err)
		status = http.StatusBadGateway
		h.updater.ShowError(doc, view.RankingContainer, errorMessage(err))
	} else {
		h.updater.UpdateRanking(doc, view.RankingContainer, ranking)
	}
	h.renderFragment(c, status, doc, view.RankingContainer)
}

// SearchFragment passes the search box content through the visitor's
// debounced session. Inputs that never produce a search, and results
// overtaken by a newer search, answer 204 so the previous results stay.
func (h *Handlers) SearchFragment(c *gin.Context) {
	session := h.searchSession(c)
	results, err := session.Query(c.Request.Context(), c.Query("q"))
	switch {
	case errors.Is(err, search.ErrSuperseded),
		errors.Is(err, search.ErrQueryTooShort),
		errors.Is(err, search.ErrStale),
		errors.Is(err, search.ErrClosed),
		errors.Is(err, context.Canceled):
		c.Status(http.StatusNoContent)
		return
	}

	doc := view.NewDocument().AddContainer(view.SearchResultsContainer)
	status := http.StatusOK
	if err != nil {
		_ = c.Error(err)
		status = http.StatusBadGateway
		h.updater.ShowError(doc, view.SearchResultsContainer, errorMessage(err))
	} else {
		h.updater.UpdateMunicipioSearchResults(doc, results)
	}
	h.renderFragment(c, status, doc, view.SearchResultsContainer)
}

// EvolucaoPNG exports the evolution chart as a PNG, state-wide or for
// ?municipio_id=.
func (h *Handlers) EvolucaoPNG(c *gin.Context) {
	ctx := c.Request.Context()

	var evo api.EvolucaoTemporal
	var err error
	if id := c.Query("municipio_id"); id != "" {
		var m api.EvolucaoMunicipio
		m, err = h.loader.LoadMunicipioEvolucao(ctx, id)
		evo = m.Series()
	} else {
		evo, err = h.loader.LoadEvolucaoTemporal(ctx)
	}
	if err != nil {
		_ = c.Error(err)
		c.String(http.StatusBadGateway, errorMessage(err))
		return
	}

	var buf bytes.Buffer
	if err := chart.RenderLinePNG(&buf, view.EvolucaoData(evo), view.EvolucaoOptions()); err != nil {
		if errors.Is(err, chart.ErrNoData) {
			c.String(http.StatusNotFound, "Sem dados para o gráfico")
			return
		}
		_ = c.Error(err)
		h.logger.Error("png export failed", zap.Error(err))
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="evolucao.png"`)
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}
