package dataprocessing

import (
	"pitchpulse/pkg/contracts/domain"
)

// Summarize builds the league headline numbers for one season from its
// fixtures, standings and squads. Goals and points come from the standings
// when present, which keeps the summary correct even when not every match
// document has been downloaded yet.
func Summarize(ref domain.SeasonRef, fixtures []domain.Fixture, standings []domain.Standing, squads []domain.Squad) domain.LeagueSummary {
	s := domain.LeagueSummary{
		Competition: ref.Competition,
		Season:      ref.Season,
		Teams:       len(standings),
	}

	var points, played int
	for _, row := range standings {
		s.Goals += row.GoalsFor
		points += row.Points
		played += row.Played
	}
	// Standings count each match for both teams.
	s.MatchesPlayed = played / 2

	if len(standings) == 0 {
		teams := make(map[string]struct{})
		for _, f := range fixtures {
			teams[f.Home] = struct{}{}
			teams[f.Away] = struct{}{}
			if f.Played() {
				s.MatchesPlayed++
				s.Goals += f.HomeScore + f.AwayScore
			}
		}
		s.Teams = len(teams)
	}

	if s.MatchesPlayed > 0 {
		s.GoalsPerMatch = float64(s.Goals) / float64(s.MatchesPlayed)
	}
	if played > 0 {
		s.PointsPerMatch = float64(points) / float64(played)
	}

	var attendance, withAttendance int
	for _, f := range fixtures {
		if f.Played() && f.Attendance > 0 {
			attendance += f.Attendance
			withAttendance++
		}
	}
	if withAttendance > 0 {
		s.AvgAttendance = float64(attendance) / float64(withAttendance)
	}

	s.DistinctNations = DistinctNationalities(squads)
	return s
}
