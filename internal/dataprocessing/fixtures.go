package dataprocessing

import (
	"sort"

	"pitchpulse/internal/feeds"
	"pitchpulse/pkg/contracts/domain"
)

// FlattenFixtures converts a fixture feed into the flat fixture rows the
// calendar page and the CSV export consume. Rows are ordered by date, then
// by match ID for matches kicking off together.
func FlattenFixtures(feed *feeds.FixtureFeed) []domain.Fixture {
	fixtures := make([]domain.Fixture, 0, len(feed.Matches))
	for _, m := range feed.Matches {
		fixtures = append(fixtures, FlattenFixture(m))
	}
	sort.Slice(fixtures, func(i, j int) bool {
		if !fixtures[i].Date.Equal(fixtures[j].Date) {
			return fixtures[i].Date.Before(fixtures[j].Date)
		}
		return fixtures[i].MatchID < fixtures[j].MatchID
	})
	return fixtures
}

// FlattenFixture flattens one match document into a fixture row. The local
// date is preferred over the UTC one when the feed carries it.
func FlattenFixture(m feeds.MatchDocument) domain.Fixture {
	info := m.MatchInfo
	home, away := homeAway(info)

	f := domain.Fixture{
		MatchID:       info.ID,
		LocalTime:     info.LocalTime,
		Week:          parseIntDefault(info.Week, 0),
		Home:          home.Name,
		Away:          away.Name,
		HomeID:        home.ID,
		AwayID:        away.ID,
		Status:        domain.MatchStatus(info.MatchStatus),
		CoverageLevel: info.CoverageLevel,
		Attendance:    parseIntDefault(info.Attendance, 0),
		LastUpdated:   ParseFeedDate(info.LastUpdated),
	}

	f.Date = ParseFeedDate(info.LocalDate)
	if f.Date.IsZero() {
		f.Date = ParseFeedDate(info.Date)
	}

	if v := info.Venue; v != nil {
		f.Venue = v.ShortName
		if f.Venue == "" {
			f.Venue = v.LongName
		}
	}
	if w := info.Weather; w != nil && (w.Temperature != "" || w.Conditions != "") {
		f.Weather = &domain.Weather{
			Temperature: w.Temperature,
			Conditions:  w.Conditions,
		}
	}

	if scores := m.LiveData.MatchDetails.Scores; scores != nil && scores.Total != nil {
		f.HomeScore = scores.Total.Home
		f.AwayScore = scores.Total.Away
	}
	return f
}
