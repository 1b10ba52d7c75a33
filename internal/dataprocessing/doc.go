// Package dataprocessing turns raw feed documents into the dashboard's
// datasets. It parses the JSON files the scraper writes under the raw data
// tree, aggregates match events into team and player statistics, and builds
// the league summary. Analyst xG workbooks are merged in when present.
package dataprocessing
