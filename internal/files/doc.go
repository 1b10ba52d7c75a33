// Package files provides discovery and management of the on-disk data
// tree. Raw feed documents live under data/raw organised as
// continent/country/competition/season, generated CSV datasets under
// data/datasets organised as competition/season. Discovery walks those
// trees; Manager wraps the small set of file operations the pipeline
// needs with path resolution against the configured directories.
package files
