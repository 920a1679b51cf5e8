package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/godilite/saneamento-dashboard/internal/repository/models"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrUnknownIndicador = errors.New("unknown indicador")
)

// indicadorColumns whitelists the columns a ranking may order by.
var indicadorColumns = map[string]string{
	"indice_atendimento_agua":  "indice_atendimento_agua",
	"indice_coleta_esgoto":     "indice_coleta_esgoto",
	"indice_tratamento_esgoto": "indice_tratamento_esgoto",
	"indice_perda_faturamento": "indice_perda_faturamento",
}

type SaneamentoRepository struct {
	db *sql.DB
}

func NewSaneamentoRepository(db *sql.DB) *SaneamentoRepository {
	return &SaneamentoRepository{db: db}
}

func scanMunicipio(row interface{ Scan(...any) error }) (models.Municipio, error) {
	var m models.Municipio
	err := row.Scan(&m.ID, &m.Nome, &m.SiglaUF, &m.Microrregiao, &m.Mesorregiao, &m.DDD)
	return m, err
}

// GetMunicipio fetches one municipality by IBGE code.
func (r *SaneamentoRepository) GetMunicipio(ctx context.Context, id string) (models.Municipio, error) {
	const query = `
		SELECT id_municipio, nome, sigla_uf, microrregiao, mesorregiao, ddd
		FROM municipios
		WHERE id_municipio = ?
	`

	m, err := scanMunicipio(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Municipio{}, fmt.Errorf("municipio %s: %w", id, ErrNotFound)
		}
		return models.Municipio{}, fmt.Errorf("query GetMunicipio: %w", err)
	}
	return m, nil
}

// SearchMunicipios matches names containing term, case-insensitively for ASCII.
func (r *SaneamentoRepository) SearchMunicipios(ctx context.Context, term string, limit int) ([]models.Municipio, error) {
	const query = `
		SELECT id_municipio, nome, sigla_uf, microrregiao, mesorregiao, ddd
		FROM municipios
		WHERE nome LIKE ? ESCAPE '\'
		ORDER BY nome
		LIMIT ?
	`

	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
	rows, err := r.db.QueryContext(ctx, query, "%"+escaped+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("query SearchMunicipios: %w", err)
	}
	defer rows.Close()

	results := make([]models.Municipio, 0)
	for rows.Next() {
		m, err := scanMunicipio(rows)
		if err != nil {
			return nil, fmt.Errorf("scan SearchMunicipios row: %w", err)
		}
		results = append(results, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate SearchMunicipios: %w", err)
	}
	return results, nil
}

// LatestAno returns the most recent year with indicator data, or 0 when empty.
func (r *SaneamentoRepository) LatestAno(ctx context.Context) (int, error) {
	const query = `SELECT MAX(ano) FROM indicadores_desempenho_anual`

	var ano sql.NullInt64
	if err := r.db.QueryRowContext(ctx, query).Scan(&ano); err != nil {
		return 0, fmt.Errorf("query LatestAno: %w", err)
	}
	if !ano.Valid {
		return 0, nil
	}
	return int(ano.Int64), nil
}

// GetMedias averages the four indices over every municipality for one year.
func (r *SaneamentoRepository) GetMedias(ctx context.Context, ano int) (models.MediasAnuais, error) {
	const query = `
		SELECT
			AVG(indice_atendimento_agua),
			AVG(indice_coleta_esgoto),
			AVG(indice_tratamento_esgoto),
			AVG(indice_perda_faturamento)
		FROM indicadores_desempenho_anual
		WHERE ano = ?
	`

	m := models.MediasAnuais{Ano: ano}
	err := r.db.QueryRowContext(ctx, query, ano).Scan(
		&m.AtendimentoAgua, &m.ColetaEsgoto, &m.TratamentoEsgoto, &m.PerdaFaturamento)
	if err != nil {
		return models.MediasAnuais{}, fmt.Errorf("query GetMedias: %w", err)
	}
	return m, nil
}

// GetMediasPorAno returns the yearly averages in ascending year order.
func (r *SaneamentoRepository) GetMediasPorAno(ctx context.Context) ([]models.MediasAnuais, error) {
	const query = `
		SELECT
			ano,
			AVG(indice_atendimento_agua),
			AVG(indice_coleta_esgoto),
			AVG(indice_tratamento_esgoto),
			AVG(indice_perda_faturamento)
		FROM indicadores_desempenho_anual
		GROUP BY ano
		ORDER BY ano ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query GetMediasPorAno: %w", err)
	}
	defer rows.Close()

	var results []models.MediasAnuais
	for rows.Next() {
		var m models.MediasAnuais
		if err := rows.Scan(&m.Ano, &m.AtendimentoAgua, &m.ColetaEsgoto, &m.TratamentoEsgoto, &m.PerdaFaturamento); err != nil {
			return nil, fmt.Errorf("scan GetMediasPorAno row: %w", err)
		}
		results = append(results, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate GetMediasPorAno: %w", err)
	}
	return results, nil
}

// GetRanking lists every municipality with a value for indicador in year ano,
// ordered by that value. Ties are broken by name.
func (r *SaneamentoRepository) GetRanking(ctx context.Context, ano int, indicador string, asc bool) ([]models.RankingRow, error) {
	column, ok := indicadorColumns[indicador]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownIndicador, indicador)
	}
	direction := "DESC"
	if asc {
		direction = "ASC"
	}

	query := fmt.Sprintf(`
		SELECT m.id_municipio, m.nome, m.sigla_uf, i.%[1]s
		FROM indicadores_desempenho_anual AS i
		JOIN municipios AS m ON m.id_municipio = i.municipio_id
		WHERE i.ano = ? AND i.%[1]s IS NOT NULL
		ORDER BY i.%[1]s %[2]s, m.nome ASC
	`, column, direction)

	rows, err := r.db.QueryContext(ctx, query, ano)
	if err != nil {
		return nil, fmt.Errorf("query GetRanking: %w", err)
	}
	defer rows.Close()

	var results []models.RankingRow
	for rows.Next() {
		var row models.RankingRow
		if err := rows.Scan(&row.MunicipioID, &row.Nome, &row.SiglaUF, &row.Valor); err != nil {
			return nil, fmt.Errorf("scan GetRanking row: %w", err)
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate GetRanking: %w", err)
	}
	return results, nil
}

// GetIndicadoresMunicipio returns a municipality's yearly indices, oldest first.
func (r *SaneamentoRepository) GetIndicadoresMunicipio(ctx context.Context, municipioID string) ([]models.IndicadoresAnuais, error) {
	const query = `
		SELECT
			municipio_id,
			ano,
			indice_atendimento_agua,
			indice_coleta_esgoto,
			indice_tratamento_esgoto,
			indice_perda_faturamento
		FROM indicadores_desempenho_anual
		WHERE municipio_id = ?
		ORDER BY ano ASC
	`

	rows, err := r.db.QueryContext(ctx, query, municipioID)
	if err != nil {
		return nil, fmt.Errorf("query GetIndicadoresMunicipio: %w", err)
	}
	defer rows.Close()

	var results []models.IndicadoresAnuais
	for rows.Next() {
		var i models.IndicadoresAnuais
		if err := rows.Scan(&i.MunicipioID, &i.Ano, &i.AtendimentoAgua, &i.ColetaEsgoto, &i.TratamentoEsgoto, &i.PerdaFaturamento); err != nil {
			return nil, fmt.Errorf("scan GetIndicadoresMunicipio row: %w", err)
		}
		results = append(results, i)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate GetIndicadoresMunicipio: %w", err)
	}
	return results, nil
}
