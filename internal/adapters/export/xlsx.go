package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/okian/trackmeet/internal/domain/model"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the XLSX export.
const (
	SheetAthletes   = "Athletes"
	SheetTeams      = "Teams"
	SheetSequence   = "Sequence"
	SheetResults    = "Results"
	SheetScoreboard = "Scoreboard"
)

// WriteXLSX writes snap as a workbook with one sheet per section.
func WriteXLSX(w io.Writer, snap Snapshot) error {
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck // in-memory workbook

	if err := f.SetSheetName(f.GetSheetName(0), SheetAthletes); err != nil {
		return fmt.Errorf("xlsx export: %w", err)
	}
	for _, name := range []string{SheetTeams, SheetSequence, SheetResults, SheetScoreboard} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("xlsx export: %w", err)
		}
	}

	sheets := map[string][][]any{
		SheetAthletes:   athleteRows(snap.Athletes),
		SheetTeams:      teamRows(snap.Teams),
		SheetSequence:   sequenceRows(snap),
		SheetResults:    resultRows(snap.EventResults),
		SheetScoreboard: scoreRows(snap.Scoreboard),
	}
	for sheet, rows := range sheets {
		if err := writeRows(f, sheet, rows); err != nil {
			return fmt.Errorf("xlsx export: sheet %s: %w", sheet, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx export: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, axis, &row); err != nil {
			return err
		}
	}
	return nil
}

func athleteRows(athletes []model.Athlete) [][]any {
	rows := [][]any{{"id", "name", "tier", "bestEvents"}}
	for _, a := range athletes {
		best := ""
		if a.BestEvents != nil {
			best = *a.BestEvents
		}
		rows = append(rows, []any{a.ID, a.Name, string(a.Tier), best})
	}
	return rows
}

func teamRows(teams []model.Team) [][]any {
	rows := [][]any{{"teamId", "team", "athlete", "tier"}}
	for _, t := range teams {
		for _, a := range t.Athletes {
			rows = append(rows, []any{t.ID, t.Name, a.Name, string(a.Tier)})
		}
	}
	return rows
}

func sequenceRows(snap Snapshot) [][]any {
	relay := make(map[int]bool, len(snap.RelayPositions))
	for _, p := range snap.RelayPositions {
		relay[p] = true
	}
	rows := [][]any{{"slot", "event", "relay", "revealed"}}
	for i, name := range snap.EventSequence {
		rows = append(rows, []any{i + 1, name, relay[i] || model.IsRelay(name), i < snap.RevealedIndex})
	}
	return rows
}

func resultRows(results []model.EventResult) [][]any {
	rows := [][]any{{"slot", "event", "teamId", "place", "recorded"}}
	for _, r := range results {
		for _, p := range r.Placements {
			rows = append(rows, []any{r.EventIndex + 1, r.Event, p.TeamID, p.Place, r.Timestamp.Format(time.RFC3339)})
		}
	}
	return rows
}

func scoreRows(scores []model.TeamScore) [][]any {
	rows := [][]any{{"rank", "team", "totalScore", "eventCount", "averageScore", "athletes"}}
	for _, s := range scores {
		names := make([]string, len(s.Athletes))
		for i, a := range s.Athletes {
			names[i] = a.Name
		}
		rows = append(rows, []any{s.Rank, s.Name, s.TotalScore, s.EventCount, s.AverageScore, strings.Join(names, ", ")})
	}
	return rows
}
