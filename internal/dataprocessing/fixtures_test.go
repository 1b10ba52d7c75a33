package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pitchpulse/internal/feeds"
	"pitchpulse/pkg/contracts/domain"
)

func TestParseFeedDate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{"date only", "2024-03-10", time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
		{"datetime with zulu", "2024-03-10T20:00:00Z", time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC)},
		{"datetime with space", "2024-03-10 20:00:00", time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC)},
		{"empty", "", time.Time{}},
		{"garbage", "next tuesday", time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseFeedDate(tt.raw))
		})
	}
}

func TestFlattenFixture(t *testing.T) {
	doc := feeds.MatchDocument{
		MatchInfo: feeds.MatchInfo{
			ID:            "m100",
			Date:          "2024-03-09Z",
			LocalDate:     "2024-03-10",
			LocalTime:     "20:00:00",
			Week:          "27",
			MatchStatus:   "Played",
			CoverageLevel: "13",
			Attendance:    "41234",
			LastUpdated:   "2024-03-10T22:05:31Z",
			Contestants: []feeds.Contestant{
				{ID: "t1", Name: "River Plate", Position: "home"},
				{ID: "t2", Name: "Boca Juniors", Position: "away"},
			},
			Venue:   &feeds.Venue{ShortName: "El Monumental", LongName: "Estadio Monumental"},
			Weather: &feeds.Weather{Temperature: "18C", Conditions: "Clear"},
		},
		LiveData: feeds.LiveData{
			MatchDetails: feeds.MatchDetails{
				Scores: &feeds.Scores{Total: &feeds.ScorePair{Home: 2, Away: 1}},
			},
		},
	}

	f := FlattenFixture(doc)
	assert.Equal(t, "m100", f.MatchID)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), f.Date, "local date wins over UTC date")
	assert.Equal(t, 27, f.Week)
	assert.Equal(t, "River Plate", f.Home)
	assert.Equal(t, "Boca Juniors", f.Away)
	assert.Equal(t, "t1", f.HomeID)
	assert.Equal(t, "El Monumental", f.Venue)
	assert.Equal(t, domain.MatchStatusPlayed, f.Status)
	assert.Equal(t, 2, f.HomeScore)
	assert.Equal(t, 1, f.AwayScore)
	assert.Equal(t, 41234, f.Attendance)
	require.NotNil(t, f.Weather)
	assert.Equal(t, "Clear", f.Weather.Conditions)
	assert.True(t, f.Played())
	assert.Equal(t, "2–1", f.Score())
}

func TestFlattenFixtureVenueFallsBackToLongName(t *testing.T) {
	doc := feeds.MatchDocument{
		MatchInfo: feeds.MatchInfo{
			ID:    "m1",
			Venue: &feeds.Venue{LongName: "Estadio Monumental"},
		},
	}
	assert.Equal(t, "Estadio Monumental", FlattenFixture(doc).Venue)
}

func TestFlattenFixturesSortsByDate(t *testing.T) {
	feed := &feeds.FixtureFeed{Matches: []feeds.MatchDocument{
		{MatchInfo: feeds.MatchInfo{ID: "m2", Date: "2024-03-17"}},
		{MatchInfo: feeds.MatchInfo{ID: "m1", Date: "2024-03-10"}},
		{MatchInfo: feeds.MatchInfo{ID: "m0", Date: "2024-03-17"}},
	}}

	fixtures := FlattenFixtures(feed)
	require.Len(t, fixtures, 3)
	assert.Equal(t, "m1", fixtures[0].MatchID)
	assert.Equal(t, "m0", fixtures[1].MatchID, "same kickoff orders by match ID")
	assert.Equal(t, "m2", fixtures[2].MatchID)
}
