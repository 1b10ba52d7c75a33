package dataprocessing

import (
	"sort"

	"pitchpulse/internal/feeds"
	"pitchpulse/pkg/contracts/domain"
)

const personTypePlayer = "player"

// ParseSquads converts a squads feed into domain rosters. Staff entries are
// kept with their type so downstream counting can filter on players.
func ParseSquads(feed *feeds.SquadsFeed) []domain.Squad {
	squads := make([]domain.Squad, 0, len(feed.Squads))
	for _, entry := range feed.Squads {
		squad := domain.Squad{
			ContestantID: entry.ContestantID,
			Team:         entry.ContestantName,
		}
		for _, p := range entry.Persons {
			squad.Members = append(squad.Members, domain.SquadMember{
				PlayerID:    p.ID,
				FirstName:   p.FirstName,
				LastName:    p.LastName,
				MatchName:   p.MatchName,
				Type:        p.Type,
				Position:    p.Position,
				Nationality: p.Nationality,
				DateOfBirth: p.DateOfBirth,
				ShirtNumber: p.ShirtNumber,
			})
		}
		squads = append(squads, squad)
	}
	sort.Slice(squads, func(i, j int) bool { return squads[i].Team < squads[j].Team })
	return squads
}

// NationalityCounts tallies players per nationality across all squads.
// Only entries typed as players count; staff and entries without a
// nationality are skipped. Results are sorted by count descending, ties by
// name.
func NationalityCounts(squads []domain.Squad) []domain.NationalityCount {
	tally := make(map[string]int)
	for _, squad := range squads {
		for _, m := range squad.Members {
			if m.Type != personTypePlayer || m.Nationality == "" {
				continue
			}
			tally[m.Nationality]++
		}
	}
	out := make([]domain.NationalityCount, 0, len(tally))
	for nat, n := range tally {
		out = append(out, domain.NationalityCount{Nationality: nat, Players: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Players != out[j].Players {
			return out[i].Players > out[j].Players
		}
		return out[i].Nationality < out[j].Nationality
	})
	return out
}

// DistinctNationalities returns the number of distinct player nationalities
// across the given squads.
func DistinctNationalities(squads []domain.Squad) int {
	seen := make(map[string]struct{})
	for _, squad := range squads {
		for _, m := range squad.Members {
			if m.Type != personTypePlayer || m.Nationality == "" {
				continue
			}
			seen[m.Nationality] = struct{}{}
		}
	}
	return len(seen)
}
