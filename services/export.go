package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/heistgames/tournament-hub/models"
	"github.com/xuri/excelize/v2"
)

type ExportFormat string

const (
	ExportXLSX ExportFormat = "xlsx"
	ExportCSV  ExportFormat = "csv"
)

var ErrUnsupportedExportFormat = errors.New("unsupported export format")

const leaderboardSheet = "Leaderboard"

var exportHeader = []string{"Tournament", "Tournament ID", "Rank", "Team", "Team ID", "Points", "Updated At"}

// ParseExportFormat принимает "xlsx" (по умолчанию) или "csv".
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch ExportFormat(raw) {
	case "", ExportXLSX:
		return ExportXLSX, nil
	case ExportCSV:
		return ExportCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedExportFormat, raw)
	}
}

func (f ExportFormat) ContentType() string {
	if f == ExportCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (f ExportFormat) Filename() string {
	return "leaderboard." + string(f)
}

// WriteStandings пишет сгруппированную таблицу в w в выбранном формате.
func WriteStandings(w io.Writer, format ExportFormat, standings []models.TournamentStandings) error {
	switch format {
	case ExportCSV:
		return writeStandingsCSV(w, standings)
	case ExportXLSX:
		return writeStandingsXLSX(w, standings)
	default:
		return ErrUnsupportedExportFormat
	}
}

func standingsRows(standings []models.TournamentStandings) [][]string {
	rows := make([][]string, 0)
	for _, group := range standings {
		for _, e := range group.Entries {
			rows = append(rows, []string{
				spreadsheetText(group.TournamentName),
				group.TournamentID,
				strconv.Itoa(e.Rank),
				spreadsheetText(e.TeamName),
				e.TeamID,
				strconv.Itoa(e.Points),
				e.UpdatedAt.UTC().Format(time.RFC3339),
			})
		}
	}
	return rows
}

// spreadsheetText не даёт Excel/Sheets принять пользовательское имя за формулу.
func spreadsheetText(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}

func writeStandingsCSV(w io.Writer, standings []models.TournamentStandings) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	if err := cw.WriteAll(standingsRows(standings)); err != nil {
		return fmt.Errorf("failed to write csv rows: %w", err)
	}
	return nil
}

func writeStandingsXLSX(w io.Writer, standings []models.TournamentStandings) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), leaderboardSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	rows := append([][]string{exportHeader}, standingsRows(standings)...)
	for idx, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, idx+1)
		if err != nil {
			return err
		}
		cells := make([]interface{}, len(row))
		for i, val := range row {
			// Ранг и очки пишем числами, чтобы по ним работала сортировка в Excel.
			if idx > 0 && (i == 2 || i == 5) {
				if n, convErr := strconv.Atoi(val); convErr == nil {
					cells[i] = n
					continue
				}
			}
			cells[i] = val
		}
		if err := f.SetSheetRow(leaderboardSheet, axis, &cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", idx+1, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write xlsx: %w", err)
	}
	return nil
}
