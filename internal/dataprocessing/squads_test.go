package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pitchpulse/internal/feeds"
)

func sampleSquadsFeed() *feeds.SquadsFeed {
	return &feeds.SquadsFeed{Squads: []feeds.SquadEntry{
		{
			ContestantID:   "t1",
			ContestantName: "River Plate",
			Persons: []feeds.SquadPerson{
				{ID: "p1", MatchName: "J. Alvarez", Type: "player", Nationality: "Argentina"},
				{ID: "p2", MatchName: "F. Armani", Type: "player", Nationality: "Argentina"},
				{ID: "p3", MatchName: "M. Borja", Type: "player", Nationality: "Colombia"},
				{ID: "c1", MatchName: "M. Demichelis", Type: "coach", Nationality: "Argentina"},
			},
		},
		{
			ContestantID:   "t2",
			ContestantName: "Boca Juniors",
			Persons: []feeds.SquadPerson{
				{ID: "p4", MatchName: "E. Cavani", Type: "player", Nationality: "Uruguay"},
				{ID: "p5", MatchName: "L. Advincula", Type: "player", Nationality: "Peru"},
				{ID: "p6", MatchName: "Unknown", Type: "player"},
			},
		},
	}}
}

func TestParseSquads(t *testing.T) {
	squads := ParseSquads(sampleSquadsFeed())
	require.Len(t, squads, 2)
	assert.Equal(t, "Boca Juniors", squads[0].Team, "squads are sorted by team")
	assert.Equal(t, "River Plate", squads[1].Team)
	assert.Len(t, squads[1].Members, 4)
	assert.Equal(t, "coach", squads[1].Members[3].Type)
}

func TestNationalityCounts(t *testing.T) {
	counts := NationalityCounts(ParseSquads(sampleSquadsFeed()))
	require.Len(t, counts, 4)

	assert.Equal(t, "Argentina", counts[0].Nationality)
	assert.Equal(t, 2, counts[0].Players, "coaches do not count")
	// Ties sort by name.
	assert.Equal(t, "Colombia", counts[1].Nationality)
	assert.Equal(t, "Peru", counts[2].Nationality)
	assert.Equal(t, "Uruguay", counts[3].Nationality)
}

func TestDistinctNationalities(t *testing.T) {
	squads := ParseSquads(sampleSquadsFeed())
	assert.Equal(t, 4, DistinctNationalities(squads))
	assert.Equal(t, 0, DistinctNationalities(nil))
}
