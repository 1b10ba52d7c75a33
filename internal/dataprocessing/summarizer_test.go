package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pitchpulse/pkg/contracts/domain"
)

func TestSummarizeFromStandings(t *testing.T) {
	ref := domain.SeasonRef{Competition: "Liga_Profesional", Season: "2024"}
	standings := []domain.Standing{
		{Rank: 1, Team: "River Plate", Played: 10, Points: 25, GoalsFor: 20},
		{Rank: 2, Team: "Boca Juniors", Played: 10, Points: 20, GoalsFor: 14},
	}
	fixtures := []domain.Fixture{
		{MatchID: "m1", Status: domain.MatchStatusPlayed, Attendance: 40000},
		{MatchID: "m2", Status: domain.MatchStatusPlayed, Attendance: 20000},
		{MatchID: "m3", Status: domain.MatchStatusFixture},
	}

	s := Summarize(ref, fixtures, standings, nil)
	assert.Equal(t, "Liga_Profesional", s.Competition)
	assert.Equal(t, "2024", s.Season)
	assert.Equal(t, 2, s.Teams)
	assert.Equal(t, 10, s.MatchesPlayed, "each match counts for both teams in standings")
	assert.Equal(t, 34, s.Goals)
	assert.InDelta(t, 3.4, s.GoalsPerMatch, 0.0001)
	assert.InDelta(t, 2.25, s.PointsPerMatch, 0.0001)
	assert.InDelta(t, 30000.0, s.AvgAttendance, 0.0001)
}

func TestSummarizeFallsBackToFixtures(t *testing.T) {
	ref := domain.SeasonRef{Competition: "Liga_Profesional", Season: "2024"}
	fixtures := []domain.Fixture{
		{MatchID: "m1", Home: "River Plate", Away: "Boca Juniors",
			Status: domain.MatchStatusPlayed, HomeScore: 2, AwayScore: 1},
		{MatchID: "m2", Home: "Racing Club", Away: "River Plate",
			Status: domain.MatchStatusFixture},
	}

	s := Summarize(ref, fixtures, nil, nil)
	assert.Equal(t, 3, s.Teams)
	assert.Equal(t, 1, s.MatchesPlayed)
	assert.Equal(t, 3, s.Goals)
	assert.InDelta(t, 3.0, s.GoalsPerMatch, 0.0001)
	assert.Equal(t, 0.0, s.PointsPerMatch)
}

func TestSummarizeIncludesNationalities(t *testing.T) {
	squads := []domain.Squad{{Team: "River Plate", Members: []domain.SquadMember{
		{PlayerID: "p1", Type: "player", Nationality: "Argentina"},
		{PlayerID: "p2", Type: "player", Nationality: "Colombia"},
	}}}

	s := Summarize(domain.SeasonRef{}, nil, nil, squads)
	assert.Equal(t, 2, s.DistinctNations)
}
