// Package config provides centralized configuration management for PitchPulse.
//
// Configuration is loaded from environment variables with the PITCHPULSE
// prefix, optionally merged with a YAML config file (config.yaml or
// configs/config.yaml). Environment variables always take precedence over
// file values.
//
// The package is also the single source of truth for file system paths.
// All paths resolve relative to the executable directory, never the current
// working directory, so binaries behave the same whether launched from a
// shell or a service manager. The on-disk layout:
//
//	data/raw/<continent>/<country>/<competition>/<season>/
//	    fixtures.json
//	    standings.json
//	    squads.json
//	    matches/<matchID>.json
//	data/datasets/<competition>/<season>/
//	    fixtures.csv, standings.csv, team_metrics.csv, ...
//
// Competition and season names coming from remote feeds are sanitized with
// SanitizeDirName before being used as directory components.
//
// Usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	paths, err := config.GetPaths()
package config
