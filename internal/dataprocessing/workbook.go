package dataprocessing

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sheet names analyst xG workbooks have been delivered under.
var xgSheetCandidates = []string{"xG", "xg", "Expected Goals", "Teams", "Sheet1"}

// ParseXGWorkbook reads an analyst workbook and returns expected goals per
// team name. The sheet layout varies between sources, so the header row is
// located by scanning for a team column next to an xG column rather than
// assuming fixed positions.
func ParseXGWorkbook(path string, logger *slog.Logger) (map[string]float64, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	sheet := pickSheet(f)
	if sheet == "" {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}

	headerRow, teamCol, xgCol := findXGHeader(rows)
	if headerRow == -1 {
		return nil, fmt.Errorf("no team/xG header found in sheet %s", sheet)
	}
	logger.Debug("xg workbook header located",
		slog.String("sheet", sheet),
		slog.Int("row", headerRow),
		slog.Int("team_col", teamCol),
		slog.Int("xg_col", xgCol))

	xg := make(map[string]float64)
	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]
		if teamCol >= len(row) || xgCol >= len(row) {
			continue
		}
		team := strings.TrimSpace(row[teamCol])
		if team == "" || strings.EqualFold(team, "total") {
			continue
		}
		raw := strings.ReplaceAll(strings.TrimSpace(row[xgCol]), ",", ".")
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			logger.Warn("skipping xG row with unparseable value",
				slog.Int("row", i),
				slog.String("team", team),
				slog.String("value", raw))
			continue
		}
		xg[team] = v
	}
	if len(xg) == 0 {
		return nil, fmt.Errorf("no xG rows found in sheet %s", sheet)
	}
	return xg, nil
}

// pickSheet returns the first candidate sheet present, falling back to the
// workbook's first sheet.
func pickSheet(f *excelize.File) string {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ""
	}
	for _, want := range xgSheetCandidates {
		for _, have := range sheets {
			if strings.EqualFold(have, want) {
				return have
			}
		}
	}
	return sheets[0]
}

// findXGHeader scans for the header row and returns its index plus the team
// and xG column positions. Returns -1 when no plausible header exists.
func findXGHeader(rows [][]string) (headerRow, teamCol, xgCol int) {
	for i, row := range rows {
		teamCol, xgCol = -1, -1
		for j, cell := range row {
			h := strings.ToLower(strings.TrimSpace(cell))
			switch {
			case h == "team" || h == "club" || h == "equipo":
				teamCol = j
			case h == "xg" || strings.Contains(h, "expected goals") || strings.Contains(h, "expected_goals"):
				xgCol = j
			}
		}
		if teamCol != -1 && xgCol != -1 {
			return i, teamCol, xgCol
		}
	}
	return -1, -1, -1
}
