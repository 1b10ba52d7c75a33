package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pitchpulse/pkg/contracts/domain"
)

func TestCompetitionFilterMatches(t *testing.T) {
	premierLeague := domain.Competition{
		Name:      "Premier League",
		Slug:      "premier-league",
		Continent: "Europe",
		Country:   "England",
		Top:       true,
	}
	ligue2 := domain.Competition{
		Name:      "Ligue 2",
		Slug:      "ligue-2",
		Continent: "Europe",
		Country:   "France",
		Top:       false,
	}

	tests := []struct {
		name   string
		filter competitionFilter
		comp   domain.Competition
		want   bool
	}{
		{"empty filter matches everything", competitionFilter{}, ligue2, true},
		{"continent match is case insensitive", competitionFilter{continent: "europe"}, premierLeague, true},
		{"continent mismatch", competitionFilter{continent: "Asia"}, premierLeague, false},
		{"country match", competitionFilter{country: "england"}, premierLeague, true},
		{"country mismatch", competitionFilter{country: "Spain"}, premierLeague, false},
		{"name substring", competitionFilter{competition: "premier"}, premierLeague, true},
		{"name substring mismatch", competitionFilter{competition: "bundesliga"}, premierLeague, false},
		{"top only keeps top leagues", competitionFilter{topOnly: true}, premierLeague, true},
		{"top only drops the rest", competitionFilter{topOnly: true}, ligue2, false},
		{"combined filters", competitionFilter{continent: "Europe", country: "France"}, ligue2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.matches(tt.comp))
		})
	}
}

func TestSeasonMatches(t *testing.T) {
	assert.True(t, seasonMatches("2024/2025", ""))
	assert.True(t, seasonMatches("2024/2025", "2024"))
	assert.True(t, seasonMatches("2024/2025", "2024/2025"))
	assert.False(t, seasonMatches("2024/2025", "2022"))
}
