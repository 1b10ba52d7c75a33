// Package exporter writes season datasets to disk and to Google Sheets.
//
// Each processed season is written under the datasets tree as a set of CSV
// files (fixtures, standings, team metrics, weekly duels, players,
// nationalities, summary) plus per-player match-line and shot files, and
// optionally as a single Excel workbook. CSV files carry a UTF-8 BOM so
// Excel opens them correctly.
package exporter
