package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/godilite/saneamento-dashboard/internal/api"
	"github.com/godilite/saneamento-dashboard/internal/repository"
	"github.com/godilite/saneamento-dashboard/internal/repository/models"
	"go.uber.org/zap"
)

const (
	dbTimeout = 2 * time.Second

	// fallbackAno is the reference year when the store holds no data at all.
	fallbackAno = 2022

	DefaultRankingLimit = 10
	DefaultSearchLimit  = 10
	MaxSearchLimit      = 50
)

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidIndicador = errors.New("invalid indicador")
	ErrStorageFailure   = errors.New("storage failure")
)

// SaneamentoService shapes stored sanitation indices into API payloads.
type SaneamentoService struct {
	storage SaneamentoRepository
	logger  *zap.Logger
}

func NewSaneamentoService(storage SaneamentoRepository, logger *zap.Logger) *SaneamentoService {
	if storage == nil {
		panic("storage must not be nil")
	}
	if logger == nil {
		l, _ := zap.NewProduction()
		logger = l
	}
	return &SaneamentoService{
		storage: storage,
		logger:  logger.Named("saneamento-service"),
	}
}

// nullable maps SQL NULL and NaN to nil.
func nullable(v sql.NullFloat64) *float64 {
	if !v.Valid || math.IsNaN(v.Float64) {
		return nil
	}
	f := v.Float64
	return &f
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func storageErr(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%w: %s: %v", ErrStorageFailure, op, err)
}

func toMunicipio(m models.Municipio) api.Municipio {
	return api.Municipio{
		ID:           m.ID,
		Nome:         m.Nome,
		SiglaUF:      m.SiglaUF,
		Microrregiao: nullableString(m.Microrregiao),
		Mesorregiao:  nullableString(m.Mesorregiao),
		DDD:          nullableString(m.DDD),
	}
}

func (s *SaneamentoService) resolveAno(ctx context.Context, ano int) (int, error) {
	if ano > 0 {
		return ano, nil
	}
	latest, err := s.storage.LatestAno(ctx)
	if err != nil {
		return 0, storageErr("latest ano", err)
	}
	return latest, nil
}

// GetIndicadoresPrincipais averages the headline indices for ano, or for the
// most recent year when ano is zero. An empty store yields zeros.
func (s *SaneamentoService) GetIndicadoresPrincipais(ctx context.Context, ano int) (api.IndicadoresPrincipais, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	ano, err := s.resolveAno(dbCtx, ano)
	if err != nil {
		return api.IndicadoresPrincipais{}, err
	}
	if ano == 0 {
		zero := 0.0
		return api.IndicadoresPrincipais{
			MediaAtendimentoAgua:  &zero,
			MediaColetaEsgoto:     &zero,
			MediaTratamentoEsgoto: &zero,
			MediaPerdaFaturamento: &zero,
		}, nil
	}

	m, err := s.storage.GetMedias(dbCtx, ano)
	if err != nil {
		return api.IndicadoresPrincipais{}, storageErr("medias", err)
	}

	s.logger.Debug("fetched indicadores principais", zap.Int("ano", ano))
	return api.IndicadoresPrincipais{
		MediaAtendimentoAgua:  nullable(m.AtendimentoAgua),
		MediaColetaEsgoto:     nullable(m.ColetaEsgoto),
		MediaTratamentoEsgoto: nullable(m.TratamentoEsgoto),
		MediaPerdaFaturamento: nullable(m.PerdaFaturamento),
	}, nil
}

// GetEvolucaoTemporal returns the yearly averages as parallel series.
func (s *SaneamentoService) GetEvolucaoTemporal(ctx context.Context) (api.EvolucaoTemporal, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.storage.GetMediasPorAno(dbCtx)
	if err != nil {
		return api.EvolucaoTemporal{}, storageErr("medias por ano", err)
	}

	out := api.EvolucaoTemporal{
		Anos:             make([]int, 0, len(rows)),
		AtendimentoAgua:  make([]*float64, 0, len(rows)),
		ColetaEsgoto:     make([]*float64, 0, len(rows)),
		TratamentoEsgoto: make([]*float64, 0, len(rows)),
	}
	for _, r := range rows {
		out.Anos = append(out.Anos, r.Ano)
		out.AtendimentoAgua = append(out.AtendimentoAgua, nullable(r.AtendimentoAgua))
		out.ColetaEsgoto = append(out.ColetaEsgoto, nullable(r.ColetaEsgoto))
		out.TratamentoEsgoto = append(out.TratamentoEsgoto, nullable(r.TratamentoEsgoto))
	}
	return out, nil
}

// GetRanking ranks municipalities by one indicator. Descending order is the
// default; any Ordem other than "desc" ranks ascending. With a MunicipioID the
// full ranking is scanned to report that municipality's position as well.
func (s *SaneamentoService) GetRanking(ctx context.Context, p RankingParams) (api.Ranking, error) {
	if !api.IsIndicador(p.Indicador) {
		return api.Ranking{}, fmt.Errorf("%w: %q", ErrInvalidIndicador, p.Indicador)
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	ano, err := s.resolveAno(dbCtx, p.Ano)
	if err != nil {
		return api.Ranking{}, err
	}
	if ano == 0 {
		ano = fallbackAno
	}
	limit := p.Limit
	if limit <= 0 {
		limit = DefaultRankingLimit
	}
	asc := p.Ordem != "" && p.Ordem != "desc"

	rows, err := s.storage.GetRanking(dbCtx, ano, p.Indicador, asc)
	if err != nil {
		return api.Ranking{}, storageErr("ranking", err)
	}

	out := api.Ranking{
		Ano:       ano,
		Indicador: p.Indicador,
		Ranking:   make([]api.RankingItem, 0, min(limit, len(rows))),
	}
	for i, r := range rows[:min(limit, len(rows))] {
		out.Ranking = append(out.Ranking, api.RankingItem{
			Posicao:   i + 1,
			Municipio: api.Municipio{ID: r.MunicipioID, Nome: r.Nome, SiglaUF: r.SiglaUF},
			Valor:     nullable(sql.NullFloat64{Float64: r.Valor, Valid: true}),
		})
	}

	if p.MunicipioID != "" {
		pos := &api.PosicaoEspecifica{MunicipioID: p.MunicipioID, Total: len(rows)}
		for i, r := range rows {
			if r.MunicipioID == p.MunicipioID {
				posicao := i + 1
				pos.Posicao = &posicao
				pos.Valor = nullable(sql.NullFloat64{Float64: r.Valor, Valid: true})
				break
			}
		}
		out.PosicaoEspecifica = pos
	}

	s.logger.Debug("fetched ranking",
		zap.String("indicador", p.Indicador),
		zap.Int("ano", ano),
		zap.Int("total", len(rows)))
	return out, nil
}

func (s *SaneamentoService) GetMunicipio(ctx context.Context, id string) (api.Municipio, error) {
	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	m, err := s.storage.GetMunicipio(dbCtx, id)
	if err != nil {
		return api.Municipio{}, storageErr("municipio", err)
	}
	return toMunicipio(m), nil
}

// GetEvolucaoMunicipio returns a municipality's yearly indices, oldest first.
func (s *SaneamentoService) GetEvolucaoMunicipio(ctx context.Context, id string) (api.EvolucaoMunicipio, error) {
	if _, err := s.GetMunicipio(ctx, id); err != nil {
		return api.EvolucaoMunicipio{}, err
	}

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.storage.GetIndicadoresMunicipio(dbCtx, id)
	if err != nil {
		return api.EvolucaoMunicipio{}, storageErr("indicadores municipio", err)
	}

	out := api.EvolucaoMunicipio{MunicipioID: id, Evolucao: make([]api.EvolucaoPonto, 0, len(rows))}
	for _, r := range rows {
		out.Evolucao = append(out.Evolucao, api.EvolucaoPonto{
			Ano:              r.Ano,
			AtendimentoAgua:  nullable(r.AtendimentoAgua),
			ColetaEsgoto:     nullable(r.ColetaEsgoto),
			TratamentoEsgoto: nullable(r.TratamentoEsgoto),
		})
	}
	return out, nil
}

// SearchMunicipios finds municipalities by partial name. limit is clamped to
// [1, MaxSearchLimit], zero meaning DefaultSearchLimit.
func (s *SaneamentoService) SearchMunicipios(ctx context.Context, q string, limit int) ([]api.Municipio, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	limit = min(limit, MaxSearchLimit)

	dbCtx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.storage.SearchMunicipios(dbCtx, q, limit)
	if err != nil {
		return nil, storageErr("search municipios", err)
	}

	out := make([]api.Municipio, 0, len(rows))
	for _, m := range rows {
		out = append(out, toMunicipio(m))
	}
	return out, nil
}
