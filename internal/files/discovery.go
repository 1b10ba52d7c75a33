package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"pitchpulse/internal/config"
	"pitchpulse/pkg/contracts/domain"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
	IsDir   bool
}

// Discovery walks the raw and dataset data trees
type Discovery struct {
	rawDir      string
	datasetsDir string
}

// NewDiscovery creates a discovery instance over the configured data tree
func NewDiscovery(paths *config.Paths) *Discovery {
	return &Discovery{
		rawDir:      paths.RawDir,
		datasetsDir: paths.DatasetsDir,
	}
}

// subdirNames lists the sorted subdirectory names of dir. A missing
// directory yields an empty list, matching how an unscraped tree reads.
func subdirNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Continents lists the continents present in the raw tree
func (d *Discovery) Continents() ([]string, error) {
	return subdirNames(d.rawDir)
}

// Countries lists the countries scraped for a continent
func (d *Discovery) Countries(continent string) ([]string, error) {
	if continent == "" {
		return nil, nil
	}
	return subdirNames(filepath.Join(d.rawDir, continent))
}

// Competitions lists the competitions scraped for a country
func (d *Discovery) Competitions(continent, country string) ([]string, error) {
	if continent == "" || country == "" {
		return nil, nil
	}
	return subdirNames(filepath.Join(d.rawDir, continent, country))
}

// Seasons lists the seasons scraped for a competition
func (d *Discovery) Seasons(continent, country, competition string) ([]string, error) {
	if continent == "" || country == "" || competition == "" {
		return nil, nil
	}
	return subdirNames(filepath.Join(d.rawDir, continent, country, competition))
}

// AllSeasons walks the full raw tree and returns every season found
func (d *Discovery) AllSeasons() ([]domain.SeasonRef, error) {
	var refs []domain.SeasonRef

	continents, err := d.Continents()
	if err != nil {
		return nil, err
	}
	for _, continent := range continents {
		countries, err := d.Countries(continent)
		if err != nil {
			return nil, err
		}
		for _, country := range countries {
			competitions, err := d.Competitions(continent, country)
			if err != nil {
				return nil, err
			}
			for _, competition := range competitions {
				seasons, err := d.Seasons(continent, country, competition)
				if err != nil {
					return nil, err
				}
				for _, season := range seasons {
					refs = append(refs, domain.SeasonRef{
						Continent:   continent,
						Country:     country,
						Competition: competition,
						Season:      season,
					})
				}
			}
		}
	}
	return refs, nil
}

// SeasonDir returns the raw directory for a season reference
func (d *Discovery) SeasonDir(ref domain.SeasonRef) string {
	return filepath.Join(d.rawDir, ref.Continent, ref.Country, ref.Competition, ref.Season)
}

// MatchFiles lists the per-match JSON documents of a season, sorted by name
func (d *Discovery) MatchFiles(ref domain.SeasonRef) ([]FileInfo, error) {
	return d.FindJSONFiles(filepath.Join(d.SeasonDir(ref), config.MatchesSubdir))
}

// DatasetCompetitions lists the competitions with generated datasets
func (d *Discovery) DatasetCompetitions() ([]string, error) {
	return subdirNames(d.datasetsDir)
}

// DatasetSeasons lists the seasons with generated datasets for a competition
func (d *Discovery) DatasetSeasons(competition string) ([]string, error) {
	if competition == "" {
		return nil, nil
	}
	return subdirNames(filepath.Join(d.datasetsDir, competition))
}

// findFilesByExt lists the files of dir with one of the given extensions
func findFilesByExt(dir string, exts ...string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := strings.ToLower(entry.Name())
		matched := false
		for _, ext := range exts {
			if strings.HasSuffix(name, ext) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(dir, entry.Name()),
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})
	return files, nil
}

// FindJSONFiles lists the JSON documents in a directory
func (d *Discovery) FindJSONFiles(dir string) ([]FileInfo, error) {
	return findFilesByExt(dir, ".json")
}

// FindCSVFiles lists the CSV files in a directory
func (d *Discovery) FindCSVFiles(dir string) ([]FileInfo, error) {
	return findFilesByExt(dir, ".csv")
}

// FindWorkbookFiles lists the Excel workbooks in a directory
func (d *Discovery) FindWorkbookFiles(dir string) ([]FileInfo, error) {
	return findFilesByExt(dir, ".xlsx", ".xls")
}

// GetLatestFile returns the most recently modified file from a list
func GetLatestFile(files []FileInfo) (FileInfo, bool) {
	if len(files) == 0 {
		return FileInfo{}, false
	}

	latest := files[0]
	for _, file := range files[1:] {
		if file.ModTime.After(latest.ModTime) {
			latest = file
		}
	}
	return latest, true
}
