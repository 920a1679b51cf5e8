package service

// RankingParams selects a ranking. Zero Ano means the most recent year with
// data; Ordem is "asc" or "desc".
type RankingParams struct {
	Indicador   string
	Ano         int
	Ordem       string
	Limit       int
	MunicipioID string
}
