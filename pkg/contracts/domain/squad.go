package domain

// SquadMember is one person entry of a squad feed. Only entries with
// Type == "player" count toward nationality statistics.
type SquadMember struct {
	PlayerID    string `json:"player_id" validate:"required"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	MatchName   string `json:"match_name,omitempty"`
	Type        string `json:"type"`
	Position    string `json:"position,omitempty"`
	Nationality string `json:"nationality,omitempty"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	ShirtNumber int    `json:"shirt_number,omitempty"`
}

// Squad is a team's roster for a season.
type Squad struct {
	ContestantID string        `json:"contestant_id"`
	Team         string        `json:"team"`
	Members      []SquadMember `json:"members"`
}

// DisplayName returns the name used on dashboard pages.
func (m SquadMember) DisplayName() string {
	if m.MatchName != "" {
		return m.MatchName
	}
	if m.FirstName == "" {
		return m.LastName
	}
	return m.FirstName + " " + m.LastName
}

// NationalityCount aggregates players per nationality for a league.
type NationalityCount struct {
	Nationality string `json:"nationality"`
	Players     int    `json:"players"`
}

// SeasonNationalities counts distinct nationalities in one season.
type SeasonNationalities struct {
	Season        string `json:"season"`
	Nationalities int    `json:"nationalities"`
}
