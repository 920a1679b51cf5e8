package repository

import (
	"context"
	"database/sql"
	"fmt"
)

const schema = `
	CREATE TABLE IF NOT EXISTS municipios (
		id_municipio TEXT PRIMARY KEY,
		nome TEXT NOT NULL,
		sigla_uf TEXT NOT NULL DEFAULT 'CE',
		microrregiao TEXT,
		mesorregiao TEXT,
		ddd TEXT
	);
	CREATE TABLE IF NOT EXISTS indicadores_desempenho_anual (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		municipio_id TEXT NOT NULL,
		ano INTEGER NOT NULL,
		indice_atendimento_agua REAL,
		indice_coleta_esgoto REAL,
		indice_tratamento_esgoto REAL,
		indice_perda_faturamento REAL,
		UNIQUE (municipio_id, ano),
		FOREIGN KEY (municipio_id) REFERENCES municipios(id_municipio)
	);
	CREATE INDEX IF NOT EXISTS idx_indicadores_ano ON indicadores_desempenho_anual(ano);
	CREATE INDEX IF NOT EXISTS idx_municipios_nome ON municipios(nome);
`

// Migrate creates the tables if they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

type seedMunicipio struct {
	id, nome, micro, meso, ddd string
}

type seedIndicadores struct {
	municipioID string
	ano         int
	agua        any
	coleta      any
	tratamento  any
	perda       any
}

var seedMunicipios = []seedMunicipio{
	{"2304400", "Fortaleza", "Fortaleza", "Metropolitana de Fortaleza", "85"},
	{"2303709", "Caucaia", "Fortaleza", "Metropolitana de Fortaleza", "85"},
	{"2307650", "Maracanaú", "Fortaleza", "Metropolitana de Fortaleza", "85"},
	{"2312908", "Sobral", "Sobral", "Noroeste Cearense", "88"},
	{"2307304", "Juazeiro do Norte", "Cariri", "Sul Cearense", "88"},
	{"2304202", "Crato", "Cariri", "Sul Cearense", "88"},
	{"2305506", "Iguatu", "Iguatu", "Centro-Sul Cearense", "88"},
	{"2311306", "Quixadá", "Sertão de Quixeramobim", "Sertões Cearenses", "88"},
	{"2305803", "Icó", "Iguatu", "Centro-Sul Cearense", "88"},
	{"2301109", "Aracati", "Litoral de Aracati", "Jaguaribe", "88"},
}

// Indices per municipality for 2020, 2021 and 2022. nil marks a missing value.
var seedSeries = map[string][3][4]any{
	"2304400": {{95.1, 55.2, 50.3, 38.7}, {95.8, 57.4, 52.0, 37.9}, {96.4, 59.9, 54.8, 36.2}},
	"2303709": {{82.4, 30.1, 28.5, 45.3}, {83.9, 32.6, 30.2, 44.1}, {85.0, 35.8, 33.3, 42.7}},
	"2307650": {{88.7, 47.5, 45.0, 40.2}, {89.3, 48.1, 46.6, 39.5}, {90.2, 50.4, 48.9, 38.8}},
	"2312908": {{90.5, 72.3, 70.1, 31.4}, {91.2, 73.0, 71.8, 30.6}, {92.0, 74.6, 73.5, 29.9}},
	"2307304": {{93.8, 44.7, 40.2, 43.5}, {94.1, 46.3, 42.9, 42.8}, {94.9, 48.0, 45.1, 41.0}},
	"2304202": {{86.1, 38.9, 35.4, 47.2}, {87.0, 40.2, 37.7, 46.0}, {87.6, nil, 39.0, 45.4}},
	"2305506": {{84.3, 25.6, 22.1, 49.8}, {85.2, 27.9, 24.0, 48.5}, {86.0, 29.3, 26.8, 47.1}},
	"2311306": {{78.9, 18.2, 15.5, 52.6}, {80.1, 19.7, 17.3, 51.0}, {81.4, 21.5, 19.8, 50.2}},
	"2305803": {{75.6, 12.4, 10.2, 55.1}, {76.8, 14.0, 11.9, 54.3}, {nil, 15.2, 13.1, 53.0}},
	"2301109": {{80.2, 22.8, 20.0, 46.9}, {81.5, 24.1, 21.7, 45.8}, {82.7, 26.5, 23.4, 44.6}},
}

var seedAnos = [3]int{2020, 2021, 2022}

// Seed loads sample municipalities and three years of indices. Existing rows
// are left untouched.
func Seed(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed: begin: %w", err)
	}
	defer tx.Rollback()

	for _, m := range seedMunicipios {
		_, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO municipios (id_municipio, nome, sigla_uf, microrregiao, mesorregiao, ddd)
			VALUES (?, ?, 'CE', ?, ?, ?);
		`, m.id, m.nome, m.micro, m.meso, m.ddd)
		if err != nil {
			return fmt.Errorf("seed municipio %s: %w", m.id, err)
		}
	}

	for _, row := range seedRows() {
		_, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO indicadores_desempenho_anual
				(municipio_id, ano, indice_atendimento_agua, indice_coleta_esgoto, indice_tratamento_esgoto, indice_perda_faturamento)
			VALUES (?, ?, ?, ?, ?, ?);
		`, row.municipioID, row.ano, row.agua, row.coleta, row.tratamento, row.perda)
		if err != nil {
			return fmt.Errorf("seed indicadores %s/%d: %w", row.municipioID, row.ano, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed: commit: %w", err)
	}
	return nil
}

func seedRows() []seedIndicadores {
	var rows []seedIndicadores
	for _, m := range seedMunicipios {
		series := seedSeries[m.id]
		for i, ano := range seedAnos {
			v := series[i]
			rows = append(rows, seedIndicadores{
				municipioID: m.id,
				ano:         ano,
				agua:        v[0],
				coleta:      v[1],
				tratamento:  v[2],
				perda:       v[3],
			})
		}
	}
	return rows
}
