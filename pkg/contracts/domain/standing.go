package domain

// Standing is one row of a league table as delivered by the standings feed
// (stage > division > ranking).
type Standing struct {
	Rank         int    `json:"rank"`
	Team         string `json:"team" validate:"required"`
	ContestantID string `json:"contestant_id,omitempty"`
	Played       int    `json:"played"`
	Wins         int    `json:"wins"`
	Draws        int    `json:"draws"`
	Losses       int    `json:"losses"`
	GoalsFor     int    `json:"goals_for"`
	GoalsAgainst int    `json:"goals_against"`
	GoalDiff     int    `json:"goal_diff"`
	Points       int    `json:"points"`
}

// PointsPerMatch returns the average points per played match, 0 when the
// team has not played yet.
func (s Standing) PointsPerMatch() float64 {
	if s.Played == 0 {
		return 0
	}
	return float64(s.Points) / float64(s.Played)
}

// StandingsTable is a full table for one season stage.
type StandingsTable struct {
	Competition string     `json:"competition"`
	Season      string     `json:"season"`
	Stage       string     `json:"stage,omitempty"`
	Rows        []Standing `json:"rows"`
}
