package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pitchpulse/internal/feeds"
	"pitchpulse/pkg/contracts/domain"
)

// sampleMatch returns a played match between t1 and t2 with a small but
// representative event stream.
func sampleMatch(id, week string) *feeds.MatchDocument {
	return &feeds.MatchDocument{
		MatchInfo: feeds.MatchInfo{
			ID:          id,
			Date:        "2024-03-10",
			Week:        week,
			MatchStatus: "Played",
			Contestants: []feeds.Contestant{
				{ID: "t1", Name: "River Plate", Position: "home"},
				{ID: "t2", Name: "Boca Juniors", Position: "away"},
			},
		},
		LiveData: feeds.LiveData{
			Events: []feeds.Event{
				{TypeID: domain.EventTypePass, ContestantID: "t1", Outcome: 1},
				{TypeID: domain.EventTypePass, ContestantID: "t1", Outcome: 1},
				{TypeID: domain.EventTypePass, ContestantID: "t1", Outcome: 0},
				{TypeID: domain.EventTypePass, ContestantID: "t2", Outcome: 1},
				{TypeID: domain.EventTypeDuel, ContestantID: "t1", Outcome: 1},
				{TypeID: domain.EventTypeDuel, ContestantID: "t1", Outcome: 0},
				{TypeID: domain.EventTypeDuel, ContestantID: "t2", Outcome: 0},
				{TypeID: domain.EventTypeAerialDuel, ContestantID: "t1", Outcome: 1},
				{TypeID: domain.EventTypeAerialDuel, ContestantID: "t2", Outcome: 0},
				{TypeID: domain.EventTypeMiss, ContestantID: "t1", PlayerID: "p1", TimeMin: 30, X: 88, Y: 50},
				{TypeID: domain.EventTypeAttemptSaved, ContestantID: "t2", PlayerID: "p2", TimeMin: 61, X: 90, Y: 44},
				{TypeID: domain.EventTypeGoal, ContestantID: "t1", PlayerID: "p1", Outcome: 1, TimeMin: 75, X: 94, Y: 52},
			},
		},
	}
}

func TestAggregatorTeamMetrics(t *testing.T) {
	agg := NewAggregator()
	agg.AddMatch(sampleMatch("m1", "1"))

	metrics := agg.TeamMetrics()
	require.Len(t, metrics, 2)

	boca, river := metrics[0], metrics[1]
	assert.Equal(t, "Boca Juniors", boca.Team)
	assert.Equal(t, "River Plate", river.Team)

	assert.Equal(t, 1, river.Played)
	assert.Equal(t, 3, river.Passes)
	assert.Equal(t, 2, river.PassesCompleted)
	assert.Equal(t, 2, river.Duels)
	assert.Equal(t, 1, river.DuelsWon)
	assert.Equal(t, 1, river.AerialDuels)
	assert.Equal(t, 1, river.AerialDuelsWon)
	assert.Equal(t, 1, river.Misses)
	assert.Equal(t, 1, river.Goals)
	assert.Equal(t, 2, river.Shots())
	assert.Equal(t, 1, river.ShotsOnTarget())
	assert.InDelta(t, 66.66, river.PassAccuracy(), 0.01)
	assert.InDelta(t, 66.66, river.DuelEffectiveness(), 0.01)

	assert.Equal(t, 1, boca.AttemptsSaved)
	assert.Equal(t, 0, boca.Goals)
	assert.Equal(t, 1, boca.Duels)
	assert.Equal(t, 0, boca.DuelsWon)
}

func TestAggregatorWeekMetrics(t *testing.T) {
	agg := NewAggregator()
	agg.AddMatch(sampleMatch("m1", "1"))
	agg.AddMatch(sampleMatch("m2", "2"))

	weeks := agg.WeekMetrics()
	require.Len(t, weeks, 4)

	assert.Equal(t, 1, weeks[0].Week)
	assert.Equal(t, "Boca Juniors", weeks[0].Team)
	assert.Equal(t, 2, weeks[2].Week)

	river := weeks[1]
	assert.Equal(t, "River Plate", river.Team)
	assert.Equal(t, "m1", river.MatchID)
	assert.Equal(t, 2, river.Duels)
	assert.Equal(t, 1, river.AerialDuels)
	assert.InDelta(t, 66.67, river.Effectiveness(), 0.001)

	boca := weeks[0]
	assert.Equal(t, 0.0, domain.TeamWeekMetrics{}.Effectiveness(), "no duels yields zero")
	assert.InDelta(t, 0.0, boca.Effectiveness(), 0.001)
}

func TestAggregatorSkipsMatchesWithoutEvents(t *testing.T) {
	agg := NewAggregator()
	agg.AddMatch(&feeds.MatchDocument{MatchInfo: feeds.MatchInfo{
		ID:          "m9",
		MatchStatus: "Fixture",
		Contestants: []feeds.Contestant{{ID: "t1", Name: "River Plate"}},
	}})

	assert.Empty(t, agg.TeamMetrics())
	assert.Empty(t, agg.WeekMetrics())
}

func TestAggregatorApplyStandings(t *testing.T) {
	agg := NewAggregator()
	agg.AddMatch(sampleMatch("m1", "1"))

	agg.ApplyStandings([]domain.Standing{
		{Rank: 1, Team: "River Plate", ContestantID: "t1", Points: 55},
		{Rank: 2, Team: "boca juniors", Points: 50}, // matched by name
		{Rank: 3, Team: "Racing Club", ContestantID: "t9", Points: 44},
	})

	metrics := agg.TeamMetrics()
	require.Len(t, metrics, 2, "standings-only teams are not invented")
	assert.Equal(t, 50, metrics[0].Points)
	assert.Equal(t, 55, metrics[1].Points)
}

func TestAggregatorApplyExpectedGoals(t *testing.T) {
	agg := NewAggregator()
	agg.AddMatch(sampleMatch("m1", "1"))

	agg.ApplyExpectedGoals(map[string]float64{
		"river plate ": 1.73,
		"Independiente": 0.9,
	})

	metrics := agg.TeamMetrics()
	assert.Equal(t, 0.0, metrics[0].ExpectedGoals)
	assert.Equal(t, 1.73, metrics[1].ExpectedGoals)
}
