package batch

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// SummarySheet holds one row per matchup in exported workbooks.
const SummarySheet = "Predictions"

var summaryHeader = []any{
	"Home", "Home Season", "Away", "Away Season", "Est Win %", "Over/Under", "Spread", "Error",
}

type jsonLine struct {
	Matchup    string `json:"matchup"`
	EstWinPct  string `json:"est_win_pct,omitempty"`
	OverUnder  string `json:"over_under,omitempty"`
	Spread     string `json:"spread,omitempty"`
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

// WriteJSON writes one summary object per line.
func WriteJSON(w io.Writer, results []Result) error {
	enc := json.NewEncoder(w)
	for _, r := range results {
		line := jsonLine{Matchup: r.Matchup.String(), DurationMS: r.Took.Milliseconds()}
		if r.Err != nil {
			line.Error = r.Err.Error()
		} else {
			line.EstWinPct = r.Prediction.EstWinPct
			line.OverUnder = r.Prediction.OverUnder
			line.Spread = r.Prediction.Spread
		}
		if err := enc.Encode(line); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
	}
	return nil
}

// WriteWorkbook saves results to an xlsx file: a summary sheet plus one
// sheet of simulated scores per successful matchup.
func WriteWorkbook(path string, results []Result) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}
	if err := f.SetSheetRow(SummarySheet, "A1", &summaryHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, r := range results {
		row := []any{r.Matchup.HomeTeam, r.Matchup.HomeSeason, r.Matchup.AwayTeam, r.Matchup.AwaySeason}
		if r.Err != nil {
			row = append(row, "", "", "", r.Err.Error())
		} else {
			row = append(row, number(r.Prediction.EstWinPct), number(r.Prediction.OverUnder), number(r.Prediction.Spread), "")
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
		if r.Err == nil {
			if err := writeScores(f, fmt.Sprintf("Matchup %d", i+1), r); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func writeScores(f *excelize.File, sheet string, r Result) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("add sheet %s: %w", sheet, err)
	}
	header := []any{r.Matchup.String(), "Home", "Away"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for j := range r.Prediction.HomePoints {
		row := []any{j, number(r.Prediction.HomePoints[j]), number(r.Prediction.AwayPoints[j])}
		cell, err := excelize.CoordinatesToCellName(1, j+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, j+2, err)
		}
	}
	return nil
}

// number stores numeric strings as numbers so spreadsheets can chart them.
func number(s string) any {
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	return s
}
