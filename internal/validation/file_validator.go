// Package validation checks the files and directories the pipeline
// binaries read and write before any work starts.
package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// FileValidator performs pre-flight checks shared by the scraper,
// processor and workbook import binaries.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a validator. A nil logger falls back to the
// default slog logger.
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{logger: logger}
}

// ValidateInputDirectory checks that dir exists and is a directory. When
// requiredPattern is non-empty the match count is logged; an empty match
// set is not an error, there is simply nothing to process yet.
func (v *FileValidator) ValidateInputDirectory(dir, requiredPattern string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return fmt.Errorf("input directory %s does not exist", dir)
	}
	if err != nil {
		return fmt.Errorf("stat directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	if requiredPattern != "" {
		matches, err := filepath.Glob(filepath.Join(dir, requiredPattern))
		if err != nil {
			return fmt.Errorf("check %s for %s: %w", dir, requiredPattern, err)
		}
		v.logger.Info("input directory validated",
			slog.String("directory", dir),
			slog.String("pattern", requiredPattern),
			slog.Int("files_found", len(matches)))
	}
	return nil
}

// ValidateOutputDirectory creates dir if needed and probes that it is
// writable.
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output directory %s: %w", dir, err)
	}

	probe := filepath.Join(dir, ".write_test")
	f, err := os.Create(probe)
	if err != nil {
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	f.Close()
	os.Remove(probe)
	return nil
}

// ValidateFile checks that path exists, is a regular file and is readable.
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		return fmt.Errorf("stat file %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	f.Close()

	v.logger.Debug("file validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateWorkbookFile checks that path is a readable .xlsx workbook and
// not an Excel lock file.
func (v *FileValidator) ValidateWorkbookFile(path string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}

	if ext := strings.ToLower(filepath.Ext(path)); ext != ".xlsx" {
		return fmt.Errorf("file %s is not an xlsx workbook (extension: %s)", path, ext)
	}
	if strings.HasPrefix(filepath.Base(path), "~$") {
		return fmt.Errorf("file %s is an Excel lock file", path)
	}
	return nil
}

// CountFiles counts the regular files in dir matching pattern.
func (v *FileValidator) CountFiles(dir, pattern string) (int, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return 0, fmt.Errorf("count files in %s: %w", dir, err)
	}

	count := 0
	for _, match := range matches {
		if info, err := os.Stat(match); err == nil && !info.IsDir() {
			count++
		}
	}
	return count, nil
}
