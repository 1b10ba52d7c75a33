package exporter

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWorkbookExportSeason(t *testing.T) {
	paths := testPaths(t)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	e := NewWorkbookExporter(paths, logger)

	path, err := e.ExportSeason(sampleDataset())
	require.NoError(t, err)
	require.FileExists(t, path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.ElementsMatch(t, []string{"Summary", "Standings", "Team Metrics", "Fixtures"}, sheets)

	rows, err := f.GetRows("Standings")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "rank", rows[0][0])
	assert.Equal(t, "River Plate", rows[1][1])

	summary, err := f.GetRows("Summary")
	require.NoError(t, err)
	require.Len(t, summary, 2)
	assert.Equal(t, "Liga_Profesional", summary[1][0])
}
