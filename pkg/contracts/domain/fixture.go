package domain

import (
	"strconv"
	"time"
)

// MatchStatus mirrors the feed's matchInfo.matchStatus values.
type MatchStatus string

const (
	MatchStatusFixture   MatchStatus = "Fixture"
	MatchStatusPlayed    MatchStatus = "Played"
	MatchStatusPlaying   MatchStatus = "Playing"
	MatchStatusPostponed MatchStatus = "Postponed"
	MatchStatusCancelled MatchStatus = "Cancelled"
)

// Fixture is one scheduled or played match flattened from the calendar feed.
type Fixture struct {
	MatchID       string      `json:"match_id" validate:"required"`
	Date          time.Time   `json:"date"`
	LocalTime     string      `json:"local_time,omitempty"`
	Week          int         `json:"week"`
	Home          string      `json:"home"`
	Away          string      `json:"away"`
	HomeID        string      `json:"home_id,omitempty"`
	AwayID        string      `json:"away_id,omitempty"`
	Venue         string      `json:"venue,omitempty"`
	Status        MatchStatus `json:"status"`
	CoverageLevel string      `json:"coverage_level,omitempty"`
	HomeScore     int         `json:"home_score"`
	AwayScore     int         `json:"away_score"`
	Attendance    int         `json:"attendance,omitempty"`
	Weather       *Weather    `json:"weather,omitempty"`
	LastUpdated   time.Time   `json:"last_updated,omitempty"`
}

// Weather carries the optional weather block of a fixture.
type Weather struct {
	Temperature string `json:"temperature,omitempty"`
	Conditions  string `json:"conditions,omitempty"`
}

// Played reports whether the fixture has a final score.
func (f Fixture) Played() bool {
	return f.Status == MatchStatusPlayed
}

// Score renders the full-time score as "H–A" with an en dash,
// matching the portal's display format.
func (f Fixture) Score() string {
	if !f.Played() {
		return ""
	}
	return strconv.Itoa(f.HomeScore) + "–" + strconv.Itoa(f.AwayScore)
}
