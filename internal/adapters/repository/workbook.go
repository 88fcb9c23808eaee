package repository

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/okian/matchup/internal/domain/model"
	"github.com/xuri/excelize/v2"
)

// Workbook header columns preceding the statistics.
const (
	TeamColumn   = "TeamName"
	SeasonColumn = "Season"
)

// LoadWorkbook reads team-season rows from sheet of the xlsx file at path
// into a MemoryStore. The first row is a header naming TeamName, Season
// and every statistic column; column order is free.
func LoadWorkbook(path, sheet string) (*MemoryStore, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook %s: %w", model.ErrConfiguration, path, err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %s: %w", model.ErrConfiguration, sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %s is empty", model.ErrConfiguration, sheet)
	}

	index := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		index[strings.TrimSpace(h)] = i
	}
	for _, col := range append([]string{TeamColumn, SeasonColumn}, model.FieldNames()...) {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: sheet %s has no %s column", model.ErrConfiguration, sheet, col)
		}
	}

	store := NewMemoryStore()
	for n, row := range rows[1:] {
		cell := func(col string) string {
			if i := index[col]; i < len(row) {
				return strings.TrimSpace(row[i])
			}
			return ""
		}
		team := cell(TeamColumn)
		if team == "" {
			continue
		}
		season, err := strconv.Atoi(cell(SeasonColumn))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d season: %w", model.ErrMalformedRecord, n+2, err)
		}
		values := make(map[string]float64, model.FieldCount)
		for _, name := range model.FieldNames() {
			raw := cell(name)
			if raw == "" {
				continue
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d %s: %w", model.ErrMalformedRecord, n+2, name, err)
			}
			values[name] = v
		}
		rec, err := model.NewTeamSeasonRecord(team, season, values)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		store.Put(rec)
	}
	return store, nil
}
