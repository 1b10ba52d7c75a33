package dataprocessing

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, sheet string, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
		require.NoError(t, f.DeleteSheet("Sheet1"))
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "xg.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestParseXGWorkbook(t *testing.T) {
	path := writeWorkbook(t, "xG", [][]interface{}{
		{"Liga Profesional 2024"},
		{},
		{"Team", "Matches", "xG"},
		{"River Plate", 27, 41.3},
		{"Boca Juniors", 27, 35.8},
		{"", nil, nil},
		{"Total", 54, 77.1},
	})

	xg, err := ParseXGWorkbook(path, testLogger())
	require.NoError(t, err)
	assert.Len(t, xg, 2, "blank and total rows are skipped")
	assert.InDelta(t, 41.3, xg["River Plate"], 0.0001)
	assert.InDelta(t, 35.8, xg["Boca Juniors"], 0.0001)
}

func TestParseXGWorkbookAlternateHeaders(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]interface{}{
		{"Club", "Expected Goals (xG)"},
		{"Racing Club", "12,5"},
	})

	xg, err := ParseXGWorkbook(path, testLogger())
	require.NoError(t, err)
	assert.InDelta(t, 12.5, xg["Racing Club"], 0.0001, "decimal commas are accepted")
}

func TestParseXGWorkbookNoHeader(t *testing.T) {
	path := writeWorkbook(t, "Sheet1", [][]interface{}{
		{"nothing", "useful", "here"},
	})

	_, err := ParseXGWorkbook(path, testLogger())
	assert.ErrorContains(t, err, "no team/xG header")
}

func TestParseXGWorkbookMissingFile(t *testing.T) {
	_, err := ParseXGWorkbook(filepath.Join(t.TempDir(), "nope.xlsx"), testLogger())
	assert.Error(t, err)
}
