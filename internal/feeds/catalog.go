package feeds

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/chromedp/chromedp"

	"pitchpulse/internal/config"
	"pitchpulse/pkg/contracts/domain"
)

// The portal embeds the full competition catalog as a JSON script tag
// and its feed outlet key inside an inline script. Both pages are
// JavaScript rendered, so discovery drives a headless browser.

var outletKeyPattern = regexp.MustCompile(`sdapi_outlet_key\s*:\s*"([^"]+)"`)

// tournamentIDPattern captures the tournament calendar hash from a
// season URL of the form /en_GB/soccer/<slug>/<hash>/fixtures.
var tournamentIDPattern = regexp.MustCompile(`soccer/[^/]+/([^/]+)/fixtures`)

// catalogData mirrors the embedded compData JSON document.
type catalogData struct {
	Continents []struct {
		Name      string `json:"name"`
		Countries []struct {
			Name  string `json:"name"`
			Comps []struct {
				ID    string `json:"id"`
				Name  string `json:"name"`
				URL   string `json:"url"`
				Crest string `json:"crest"`
				Top   bool   `json:"top"`
				Ord   int    `json:"ord"`
			} `json:"comps"`
		} `json:"countries"`
	} `json:"continents"`
}

// seasonOption is one entry of the portal's season selector.
type seasonOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// CatalogBrowser discovers competitions, seasons and the outlet key
// from the portal using a headless browser.
type CatalogBrowser struct {
	portalURL string
	headless  bool
	logger    *slog.Logger
}

// NewCatalogBrowser builds a catalog browser for the configured portal.
func NewCatalogBrowser(cfg config.FeedsConfig, headless bool, logger *slog.Logger) *CatalogBrowser {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogBrowser{
		portalURL: strings.TrimRight(cfg.PortalURL, "/"),
		headless:  headless,
		logger:    logger.With(slog.String("component", "catalog")),
	}
}

// newBrowserContext allocates a chromedp context. The returned cancel
// funcs must be called in reverse order.
func (b *CatalogBrowser) newBrowserContext(ctx context.Context) (context.Context, []context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", b.headless),
		chromedp.UserAgent(userAgent),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	return browserCtx, []context.CancelFunc{cancelBrowser, cancelAlloc}
}

// Competitions loads the portal catalog page and returns every listed
// competition grouped by continent and country.
func (b *CatalogBrowser) Competitions(ctx context.Context) ([]domain.Competition, error) {
	browserCtx, cancels := b.newBrowserContext(ctx)
	defer func() {
		for _, cancel := range cancels {
			cancel()
		}
	}()

	var raw string
	catalogURL := b.portalURL + "/en_GB/soccer/competitions"
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(catalogURL),
		chromedp.WaitReady("#compData", chromedp.ByID),
		chromedp.Evaluate(`document.getElementById('compData').textContent`, &raw),
	)
	if err != nil {
		return nil, fmt.Errorf("load catalog page: %w", err)
	}

	comps, err := ParseCatalog([]byte(raw), b.portalURL)
	if err != nil {
		return nil, err
	}

	b.logger.InfoContext(ctx, "discovered competitions",
		slog.Int("count", len(comps)),
		slog.String("url", catalogURL))
	return comps, nil
}

// Seasons loads a competition page and returns one Season per entry of
// its season selector.
func (b *CatalogBrowser) Seasons(ctx context.Context, comp domain.Competition) ([]domain.Season, error) {
	if comp.URL == "" {
		return nil, errors.New("competition has no portal URL")
	}

	browserCtx, cancels := b.newBrowserContext(ctx)
	defer func() {
		for _, cancel := range cancels {
			cancel()
		}
	}()

	var options []seasonOption
	js := `Array.from(document.querySelectorAll('#season-select option'))
		.map(o => ({label: o.textContent.trim(), value: o.getAttribute('value') || ''}))
		.filter(o => o.value)`
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(comp.URL),
		chromedp.WaitReady("#season-select", chromedp.ByID),
		chromedp.Evaluate(js, &options),
	)
	if err != nil {
		return nil, fmt.Errorf("load seasons for %s: %w", comp.Name, err)
	}

	seasons := make([]domain.Season, 0, len(options))
	for _, opt := range options {
		seasonURL := b.portalURL + opt.Value
		tournamentID := TournamentIDFromURL(seasonURL)
		if tournamentID == "" {
			b.logger.WarnContext(ctx, "skipping season without tournament id",
				slog.String("competition", comp.Name),
				slog.String("url", seasonURL))
			continue
		}
		seasons = append(seasons, domain.Season{
			CompetitionID: comp.ID,
			Competition:   comp.Name,
			Continent:     comp.Continent,
			Country:       comp.Country,
			TournamentID:  tournamentID,
			Label:         opt.Label,
			URL:           seasonURL,
		})
	}

	b.logger.InfoContext(ctx, "discovered seasons",
		slog.String("competition", comp.Name),
		slog.Int("count", len(seasons)))
	return seasons, nil
}

// OutletKey loads a competition page and extracts the feed outlet key
// from its inline scripts.
func (b *CatalogBrowser) OutletKey(ctx context.Context, pageURL string) (string, error) {
	browserCtx, cancels := b.newBrowserContext(ctx)
	defer func() {
		for _, cancel := range cancels {
			cancel()
		}
	}()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(`document.documentElement.outerHTML`, &html),
	)
	if err != nil {
		return "", fmt.Errorf("load page for outlet key: %w", err)
	}

	key, err := ExtractOutletKey(html)
	if err != nil {
		return "", fmt.Errorf("page %s: %w", pageURL, err)
	}
	return key, nil
}

// ParseCatalog decodes the embedded compData document into a flat
// competition list. Relative URLs are resolved against portalURL.
func ParseCatalog(data []byte, portalURL string) ([]domain.Competition, error) {
	var catalog catalogData
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parse catalog JSON: %w", err)
	}

	portalURL = strings.TrimRight(portalURL, "/")
	var comps []domain.Competition
	for _, continent := range catalog.Continents {
		for _, country := range continent.Countries {
			for _, comp := range country.Comps {
				slug, _ := splitCompetitionURL(comp.URL)
				c := domain.Competition{
					ID:        comp.ID,
					Slug:      slug,
					Name:      comp.Name,
					Continent: continent.Name,
					Country:   country.Name,
					Top:       comp.Top,
					Order:     comp.Ord,
				}
				if comp.URL != "" {
					c.URL = portalURL + comp.URL
				}
				if comp.Crest != "" {
					c.CrestURL = portalURL + comp.Crest
				}
				comps = append(comps, c)
			}
		}
	}

	if len(comps) == 0 {
		return nil, errors.New("catalog contains no competitions")
	}
	return comps, nil
}

// splitCompetitionURL pulls the slug and tournament hash out of a
// portal URL of the form /en_GB/soccer/<slug>/<hash>/results.
func splitCompetitionURL(u string) (slug, hash string) {
	parts := strings.Split(strings.Trim(u, "/"), "/")
	if len(parts) >= 4 {
		return parts[2], parts[3]
	}
	return "", ""
}

// TournamentIDFromURL extracts the tournament calendar hash from a
// season results or fixtures URL.
func TournamentIDFromURL(u string) string {
	u = strings.Replace(u, "results", "fixtures", 1)
	m := tournamentIDPattern.FindStringSubmatch(u)
	if len(m) == 2 {
		return m[1]
	}
	return ""
}

// ExtractOutletKey finds the sdapi outlet key in a rendered portal page.
func ExtractOutletKey(html string) (string, error) {
	m := outletKeyPattern.FindStringSubmatch(html)
	if len(m) != 2 {
		return "", errors.New("outlet key not found in page")
	}
	return m[1], nil
}
