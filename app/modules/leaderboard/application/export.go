package leaderboardservice

import (
	"context"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/placar-app/placar-backend/internal/sharedtypes"
)

// ExportStandingsXLSX renders a standings view as an XLSX workbook, one row
// per athlete with attempt columns in field order.
func (s *LeaderboardService) ExportStandingsXLSX(ctx context.Context, scope sharedtypes.ScoreScope, rankField string) ([]byte, error) {
	rows, err := s.Standings(ctx, scope, rankField)
	if err != nil {
		return nil, err
	}

	fieldKeys := collectFieldKeys(rows)

	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Standings"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := append([]string{"Rank", "Athlete", "Main Value"}, fieldKeys...)
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header %q: %w", header, err)
		}
	}

	for i, row := range rows {
		values := make([]any, 0, len(headers))
		if row.Rank != nil {
			values = append(values, *row.Rank)
		} else {
			values = append(values, "")
		}
		values = append(values, row.AthleteID.String(), row.MainValue)
		for _, key := range fieldKeys {
			values = append(values, row.Attempts[key])
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func collectFieldKeys(rows []StandingRow) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, row := range rows {
		for key := range row.Attempts {
			if !seen[key] {
				seen[key] = true
				keys = append(keys, key)
			}
		}
	}
	sort.Strings(keys)
	return keys
}
