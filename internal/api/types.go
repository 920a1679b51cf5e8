package api

import (
	"errors"
	"fmt"
)

// ErrInvalidPayload marks a 2xx response whose body does not have the expected shape.
var ErrInvalidPayload = errors.New("invalid payload")

// Validator is implemented by payloads that check their own shape after decoding.
type Validator interface {
	Validate() error
}

// Indicator names accepted by the ranking endpoint.
const (
	IndicadorAtendimentoAgua  = "indice_atendimento_agua"
	IndicadorColetaEsgoto     = "indice_coleta_esgoto"
	IndicadorTratamentoEsgoto = "indice_tratamento_esgoto"
	IndicadorPerdaFaturamento = "indice_perda_faturamento"
)

// Indicadores lists the rankable indicators in display order.
var Indicadores = []string{
	IndicadorAtendimentoAgua,
	IndicadorColetaEsgoto,
	IndicadorTratamentoEsgoto,
	IndicadorPerdaFaturamento,
}

// IsIndicador reports whether name is one of the rankable indicators.
func IsIndicador(name string) bool {
	for _, ind := range Indicadores {
		if ind == name {
			return true
		}
	}
	return false
}

type Municipio struct {
	ID           string  `json:"id_municipio"`
	Nome         string  `json:"nome"`
	SiglaUF      string  `json:"sigla_uf,omitempty"`
	Microrregiao *string `json:"microrregiao,omitempty"`
	Mesorregiao  *string `json:"mesorregiao,omitempty"`
	DDD          *string `json:"ddd,omitempty"`
}

func (m *Municipio) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("%w: municipio without id_municipio", ErrInvalidPayload)
	}
	return nil
}

// MunicipioList is the search endpoint payload.
type MunicipioList []Municipio

func (l *MunicipioList) Validate() error {
	for i := range *l {
		if err := (*l)[i].Validate(); err != nil {
			return fmt.Errorf("result %d: %w", i, err)
		}
	}
	return nil
}

// IndicadoresPrincipais is the state-wide average of the four headline indicators.
type IndicadoresPrincipais struct {
	MediaAtendimentoAgua  *float64 `json:"media_atendimento_agua"`
	MediaColetaEsgoto     *float64 `json:"media_coleta_esgoto"`
	MediaTratamentoEsgoto *float64 `json:"media_tratamento_esgoto"`
	MediaPerdaFaturamento *float64 `json:"media_perda_faturamento"`
}

// EvolucaoTemporal holds per-year averages as parallel series.
type EvolucaoTemporal struct {
	Anos             []int      `json:"anos"`
	AtendimentoAgua  []*float64 `json:"atendimento_agua"`
	ColetaEsgoto     []*float64 `json:"coleta_esgoto"`
	TratamentoEsgoto []*float64 `json:"tratamento_esgoto"`
}

func (e *EvolucaoTemporal) Validate() error {
	n := len(e.Anos)
	for name, series := range map[string][]*float64{
		"atendimento_agua":  e.AtendimentoAgua,
		"coleta_esgoto":     e.ColetaEsgoto,
		"tratamento_esgoto": e.TratamentoEsgoto,
	} {
		if len(series) != n {
			return fmt.Errorf("%w: %s has %d values for %d years", ErrInvalidPayload, name, len(series), n)
		}
	}
	return nil
}

type RankingItem struct {
	Posicao   int       `json:"posicao"`
	Municipio Municipio `json:"municipio"`
	Valor     *float64  `json:"valor"`
}

// PosicaoEspecifica is returned alongside a ranking when a municipality filter was given.
type PosicaoEspecifica struct {
	MunicipioID string   `json:"municipio_id"`
	Posicao     *int     `json:"posicao"`
	Total       int      `json:"total"`
	Valor       *float64 `json:"valor"`
}

type Ranking struct {
	Ano               int                `json:"ano"`
	Indicador         string             `json:"indicador"`
	Ranking           []RankingItem      `json:"ranking"`
	PosicaoEspecifica *PosicaoEspecifica `json:"posicao_especifica,omitempty"`
}

func (r *Ranking) Validate() error {
	if r.Ranking == nil {
		return fmt.Errorf("%w: ranking field missing", ErrInvalidPayload)
	}
	return nil
}

// EvolucaoPonto is one year of a municipality's indicator history.
type EvolucaoPonto struct {
	Ano              int      `json:"ano"`
	AtendimentoAgua  *float64 `json:"indice_atendimento_agua"`
	ColetaEsgoto     *float64 `json:"indice_coleta_esgoto"`
	TratamentoEsgoto *float64 `json:"indice_tratamento_esgoto"`
}

type EvolucaoMunicipio struct {
	MunicipioID string          `json:"municipio_id"`
	Evolucao    []EvolucaoPonto `json:"evolucao"`
}

func (e *EvolucaoMunicipio) Validate() error {
	if e.MunicipioID == "" {
		return fmt.Errorf("%w: evolucao without municipio_id", ErrInvalidPayload)
	}
	return nil
}

// Series pivots the municipality history into the same parallel-series shape
// as the state-wide evolution.
func (e EvolucaoMunicipio) Series() EvolucaoTemporal {
	out := EvolucaoTemporal{
		Anos:             make([]int, len(e.Evolucao)),
		AtendimentoAgua:  make([]*float64, len(e.Evolucao)),
		ColetaEsgoto:     make([]*float64, len(e.Evolucao)),
		TratamentoEsgoto: make([]*float64, len(e.Evolucao)),
	}
	for i, p := range e.Evolucao {
		out.Anos[i] = p.Ano
		out.AtendimentoAgua[i] = p.AtendimentoAgua
		out.ColetaEsgoto[i] = p.ColetaEsgoto
		out.TratamentoEsgoto[i] = p.TratamentoEsgoto
	}
	return out
}
