package domain

import (
	"time"
)

// TeamSeasonMetrics aggregates event-level statistics for one team over a
// season. Shot counts follow the feed's split: misses (off target), attempts
// saved (on target) and goals. ExpectedGoals is zero unless an analyst
// workbook supplied xG figures for the season.
type TeamSeasonMetrics struct {
	Team            string  `json:"team" validate:"required"`
	ContestantID    string  `json:"contestant_id,omitempty"`
	Played          int     `json:"played"`
	Goals           int     `json:"goals"`
	Misses          int     `json:"misses"`
	AttemptsSaved   int     `json:"attempts_saved"`
	Passes          int     `json:"passes"`
	PassesCompleted int     `json:"passes_completed"`
	Duels           int     `json:"duels"`
	DuelsWon        int     `json:"duels_won"`
	AerialDuels     int     `json:"aerial_duels"`
	AerialDuelsWon  int     `json:"aerial_duels_won"`
	ExpectedGoals   float64 `json:"expected_goals,omitempty"`
	Points          int     `json:"points"`
}

// Shots returns the total shot attempts (misses + saved + goals).
func (m TeamSeasonMetrics) Shots() int {
	return m.Misses + m.AttemptsSaved + m.Goals
}

// ShotsOnTarget returns attempts that required a save plus goals.
func (m TeamSeasonMetrics) ShotsOnTarget() int {
	return m.AttemptsSaved + m.Goals
}

// PassAccuracy returns completed passes as a percentage of attempted ones.
func (m TeamSeasonMetrics) PassAccuracy() float64 {
	if m.Passes == 0 {
		return 0
	}
	return float64(m.PassesCompleted) / float64(m.Passes) * 100.0
}

// DuelEffectiveness returns won duels (ground + aerial) as a percentage of
// all duels contested.
func (m TeamSeasonMetrics) DuelEffectiveness() float64 {
	total := m.Duels + m.AerialDuels
	if total == 0 {
		return 0
	}
	won := m.DuelsWon + m.AerialDuelsWon
	return float64(won) / float64(total) * 100.0
}

// GoalsPerMatch returns goals averaged over played matches.
func (m TeamSeasonMetrics) GoalsPerMatch() float64 {
	if m.Played == 0 {
		return 0
	}
	return float64(m.Goals) / float64(m.Played)
}

// TeamWeekMetrics is the per-week duel breakdown backing the league duel
// timeseries chart.
type TeamWeekMetrics struct {
	Week           int       `json:"week"`
	Date           time.Time `json:"date,omitempty"`
	MatchID        string    `json:"match_id"`
	Team           string    `json:"team"`
	Duels          int       `json:"duels"`
	DuelsWon       int       `json:"duels_won"`
	AerialDuels    int       `json:"aerial_duels"`
	AerialDuelsWon int       `json:"aerial_duels_won"`
}

// Effectiveness returns the combined duel win percentage for the week,
// rounded to two decimals like the source dataset.
func (w TeamWeekMetrics) Effectiveness() float64 {
	total := w.Duels + w.AerialDuels
	if total == 0 {
		return 0
	}
	won := w.DuelsWon + w.AerialDuelsWon
	pct := float64(won) / float64(total) * 100.0
	return float64(int(pct*100+0.5)) / 100
}

// PlayerMatchLine is one row of a player's per-match statistics table,
// extracted from the lineup stat block of a match feed.
type PlayerMatchLine struct {
	MatchID     string    `json:"match_id"`
	Date        time.Time `json:"date"`
	Description string    `json:"description,omitempty"`
	Minutes     int       `json:"minutes"`
	Goals       int       `json:"goals"`
	Assists     int       `json:"assists"`
	Yellow      int       `json:"yellow"`
	Red         int       `json:"red"`
	Started     bool      `json:"started"`
}

// PlayerSeasonStats is the season roll-up of a player's match lines.
type PlayerSeasonStats struct {
	PlayerID   string `json:"player_id" validate:"required"`
	PlayerName string `json:"player_name"`
	Team       string `json:"team,omitempty"`
	Matches    int    `json:"matches"`
	Starts     int    `json:"starts"`
	Minutes    int    `json:"minutes"`
	Goals      int    `json:"goals"`
	Assists    int    `json:"assists"`
	Yellow     int    `json:"yellow"`
	Red        int    `json:"red"`
}

// LeagueSummary backs the league page's headline numbers.
type LeagueSummary struct {
	Competition     string  `json:"competition"`
	Season          string  `json:"season"`
	Teams           int     `json:"teams"`
	MatchesPlayed   int     `json:"matches_played"`
	Goals           int     `json:"goals"`
	GoalsPerMatch   float64 `json:"goals_per_match"`
	PointsPerMatch  float64 `json:"points_per_match"`
	AvgAttendance   float64 `json:"avg_attendance,omitempty"`
	DistinctNations int     `json:"distinct_nations,omitempty"`
}
