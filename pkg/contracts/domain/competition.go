package domain

// Competition represents a soccer competition as listed in the portal catalog.
// The catalog is organised continent > country > competition.
type Competition struct {
	ID        string `json:"id" validate:"required"`
	Slug      string `json:"slug,omitempty"`
	Name      string `json:"name" validate:"required"`
	Continent string `json:"continent"`
	Country   string `json:"country"`
	URL       string `json:"url,omitempty"`
	CrestURL  string `json:"crest_url,omitempty"`
	Top       bool   `json:"top"`
	Order     int    `json:"order"`
}

// Season represents one tournament calendar of a competition.
// TournamentID is the feed identifier (tmcl) used to request fixtures,
// standings and match data for that season.
type Season struct {
	CompetitionID string `json:"competition_id" validate:"required"`
	Competition   string `json:"competition"`
	Continent     string `json:"continent"`
	Country       string `json:"country"`
	TournamentID  string `json:"tournament_id" validate:"required"`
	Label         string `json:"label"` // e.g. "2024" or "2024/2025"
	URL           string `json:"url,omitempty"`
}

// SeasonRef identifies a season inside the on-disk data tree.
// All four components are path-sanitized directory names.
type SeasonRef struct {
	Continent   string `json:"continent"`
	Country     string `json:"country"`
	Competition string `json:"competition"`
	Season      string `json:"season"`
}
