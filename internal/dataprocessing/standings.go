package dataprocessing

import (
	"sort"

	"pitchpulse/internal/feeds"
	"pitchpulse/pkg/contracts/domain"
)

// ParseStandings flattens a standings feed into table rows sorted by rank.
// The feed nests stage > division > ranking; a regular season carries a
// single total division, cup formats may carry several stages.
func ParseStandings(feed *feeds.StandingsFeed) []domain.Standing {
	var rows []domain.Standing
	for _, stage := range feed.Stages {
		for _, div := range stage.Divisions {
			if div.Type != "" && div.Type != "total" {
				continue
			}
			for _, r := range div.Rankings {
				rows = append(rows, domain.Standing{
					Rank:         r.Rank,
					Team:         r.ContestantName,
					ContestantID: r.ContestantID,
					Played:       r.MatchesPlayed,
					Wins:         r.MatchesWon,
					Draws:        r.MatchesDrawn,
					Losses:       r.MatchesLost,
					GoalsFor:     r.GoalsFor,
					GoalsAgainst: r.GoalsAgainst,
					GoalDiff:     parseIntDefault(r.Goaldifference, r.GoalsFor-r.GoalsAgainst),
					Points:       r.Points,
				})
			}
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Rank < rows[j].Rank })
	return rows
}
