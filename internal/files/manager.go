package files

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"pitchpulse/internal/config"
)

// Manager provides file management operations over the data tree
type Manager struct {
	paths *config.Paths
}

// NewManager creates a new file manager instance
func NewManager(paths *config.Paths) *Manager {
	return &Manager{paths: paths}
}

// FileExists checks if a file exists at the given path
func (m *Manager) FileExists(path string) bool {
	fullPath := m.resolvePath(path)
	_, err := os.Stat(fullPath)
	exists := err == nil

	slog.Debug("FileExists check",
		slog.String("path", path),
		slog.String("full_path", fullPath),
		slog.Bool("exists", exists))

	return exists
}

// CreateDirectory creates a directory with all parent directories
func (m *Manager) CreateDirectory(path string) error {
	fullPath := m.resolvePath(path)

	slog.Debug("Creating directory",
		slog.String("path", path),
		slog.String("full_path", fullPath))

	return os.MkdirAll(fullPath, 0755)
}

// CopyFile copies a file from source to destination
func (m *Manager) CopyFile(src, dst string) error {
	srcPath := m.resolvePath(src)
	dstPath := m.resolvePath(dst)

	dstDir := filepath.Dir(dstPath)
	if err := os.MkdirAll(dstDir, 0755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	srcFile, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dstFile.Close()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return fmt.Errorf("failed to copy file content: %w", err)
	}

	return dstFile.Sync()
}

// MoveFile moves a file, falling back to copy and delete across filesystems
func (m *Manager) MoveFile(src, dst string) error {
	srcPath := m.resolvePath(src)
	dstPath := m.resolvePath(dst)

	dstDir := filepath.Dir(dstPath)
	if err := os.MkdirAll(dstDir, 0755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	if err := os.Rename(srcPath, dstPath); err == nil {
		return nil
	}

	if err := m.CopyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(srcPath)
}

// DeleteFile deletes a file
func (m *Manager) DeleteFile(path string) error {
	fullPath := m.resolvePath(path)

	slog.Info("Deleting file",
		slog.String("path", path),
		slog.String("full_path", fullPath))

	return os.Remove(fullPath)
}

// GetFileSize returns the size of a file in bytes
func (m *Manager) GetFileSize(path string) (int64, error) {
	fullPath := m.resolvePath(path)
	info, err := os.Stat(fullPath)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// ReadFile reads the entire content of a file
func (m *Manager) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(m.resolvePath(path))
}

// WriteFile writes data to a file, creating parent directories as needed
func (m *Manager) WriteFile(path string, data []byte) error {
	fullPath := m.resolvePath(path)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	return os.WriteFile(fullPath, data, 0644)
}

// ReadJSON reads a file and decodes it into out
func (m *Manager) ReadJSON(path string, out interface{}) error {
	data, err := m.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

// WriteJSON encodes v and writes it to path. Raw feed documents are
// stored indented so they stay diffable across scrape runs.
func (m *Manager) WriteJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return m.WriteFile(path, data)
}

// CleanPath returns a clean, absolute path
func (m *Manager) CleanPath(path string) string {
	return filepath.Clean(m.resolvePath(path))
}

// GetRelativePath returns the path relative to the executable directory
func (m *Manager) GetRelativePath(fullPath string) (string, error) {
	return filepath.Rel(m.paths.ExecutableDir, fullPath)
}

// ListFiles returns all files in a directory (non-recursive)
func (m *Manager) ListFiles(dir string) ([]string, error) {
	fullPath := m.resolvePath(dir)

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, entry.Name())
		}
	}
	return files, nil
}

// EnsureDirectory creates a directory if it doesn't exist
func (m *Manager) EnsureDirectory(path string) error {
	fullPath := m.resolvePath(path)

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return os.MkdirAll(fullPath, 0755)
	}
	return nil
}

// resolvePath resolves a path relative to the appropriate base directory
func (m *Manager) resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	switch {
	case strings.HasPrefix(path, "raw/"):
		return filepath.Join(m.paths.RawDir, strings.TrimPrefix(path, "raw/"))
	case strings.HasPrefix(path, "datasets/"):
		return filepath.Join(m.paths.DatasetsDir, strings.TrimPrefix(path, "datasets/"))
	case strings.HasPrefix(path, "cache/"):
		return m.paths.GetCachePath(strings.TrimPrefix(path, "cache/"))
	case strings.HasPrefix(path, "logs/"):
		return m.paths.GetLogPath(strings.TrimPrefix(path, "logs/"))
	case strings.HasPrefix(path, "web/"):
		return m.paths.GetWebFilePath(strings.TrimPrefix(path, "web/"))
	case strings.HasPrefix(path, "static/"):
		return m.paths.GetStaticFilePath(strings.TrimPrefix(path, "static/"))
	default:
		return filepath.Join(m.paths.DataDir, path)
	}
}
