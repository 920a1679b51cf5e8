package models

import "database/sql"

type Municipio struct {
	ID           string
	Nome         string
	SiglaUF      string
	Microrregiao sql.NullString
	Mesorregiao  sql.NullString
	DDD          sql.NullString
}

// IndicadoresAnuais is one municipality-year row of performance indices.
type IndicadoresAnuais struct {
	MunicipioID      string
	Ano              int
	AtendimentoAgua  sql.NullFloat64
	ColetaEsgoto     sql.NullFloat64
	TratamentoEsgoto sql.NullFloat64
	PerdaFaturamento sql.NullFloat64
}

// MediasAnuais holds the state-wide averages of one year.
type MediasAnuais struct {
	Ano              int
	AtendimentoAgua  sql.NullFloat64
	ColetaEsgoto     sql.NullFloat64
	TratamentoEsgoto sql.NullFloat64
	PerdaFaturamento sql.NullFloat64
}

// RankingRow is a municipality and its value for the ranked indicator.
type RankingRow struct {
	MunicipioID string
	Nome        string
	SiglaUF     string
	Valor       float64
}
