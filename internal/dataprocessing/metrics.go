package dataprocessing

import (
	"sort"
	"strings"

	"pitchpulse/internal/feeds"
	"pitchpulse/pkg/contracts/domain"
)

// Aggregator accumulates event-level statistics over the match documents of
// one season. Feed it matches with AddMatch, then read the per-team totals
// and the weekly duel breakdown.
type Aggregator struct {
	teams map[string]*domain.TeamSeasonMetrics
	weeks []domain.TeamWeekMetrics
}

// NewAggregator returns an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{teams: make(map[string]*domain.TeamSeasonMetrics)}
}

func (a *Aggregator) team(id, name string) *domain.TeamSeasonMetrics {
	m, ok := a.teams[id]
	if !ok {
		m = &domain.TeamSeasonMetrics{Team: name, ContestantID: id}
		a.teams[id] = m
	}
	if m.Team == "" {
		m.Team = name
	}
	return m
}

// AddMatch folds one match document into the season totals. Matches without
// events (future fixtures, postponements) contribute nothing.
func (a *Aggregator) AddMatch(doc *feeds.MatchDocument) {
	if doc == nil || len(doc.LiveData.Events) == 0 {
		return
	}
	info := doc.MatchInfo
	names := contestantNames(info)
	week := parseIntDefault(info.Week, 0)
	date := ParseFeedDate(info.LocalDate)
	if date.IsZero() {
		date = ParseFeedDate(info.Date)
	}

	perWeek := make(map[string]*domain.TeamWeekMetrics, 2)
	for _, c := range info.Contestants {
		m := a.team(c.ID, c.Name)
		m.Played++
		perWeek[c.ID] = &domain.TeamWeekMetrics{
			Week:    week,
			Date:    date,
			MatchID: info.ID,
			Team:    c.Name,
		}
	}

	for _, raw := range doc.LiveData.Events {
		e := convertEvent(raw)
		if e.ContestantID == "" {
			continue
		}
		m := a.team(e.ContestantID, names[e.ContestantID])
		wk := perWeek[e.ContestantID]

		switch e.TypeID {
		case domain.EventTypePass:
			m.Passes++
			if e.Succeeded() {
				m.PassesCompleted++
			}
		case domain.EventTypeMiss:
			m.Misses++
		case domain.EventTypeAttemptSaved:
			m.AttemptsSaved++
		case domain.EventTypeGoal:
			m.Goals++
		case domain.EventTypeAerialDuel:
			m.AerialDuels++
			if wk != nil {
				wk.AerialDuels++
			}
			if e.Succeeded() {
				m.AerialDuelsWon++
				if wk != nil {
					wk.AerialDuelsWon++
				}
			}
		case domain.EventTypeDuel:
			m.Duels++
			if wk != nil {
				wk.Duels++
			}
			if e.Succeeded() {
				m.DuelsWon++
				if wk != nil {
					wk.DuelsWon++
				}
			}
		}
	}

	ids := make([]string, 0, len(perWeek))
	for id := range perWeek {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		a.weeks = append(a.weeks, *perWeek[id])
	}
}

// ApplyStandings copies points onto the matching teams. Rows are matched by
// contestant ID first, then by club name.
func (a *Aggregator) ApplyStandings(rows []domain.Standing) {
	byName := make(map[string]*domain.TeamSeasonMetrics, len(a.teams))
	for _, m := range a.teams {
		byName[strings.ToLower(m.Team)] = m
	}
	for _, row := range rows {
		if m, ok := a.teams[row.ContestantID]; ok && row.ContestantID != "" {
			m.Points = row.Points
			continue
		}
		if m, ok := byName[strings.ToLower(row.Team)]; ok {
			m.Points = row.Points
		}
	}
}

// ApplyExpectedGoals merges analyst xG figures keyed by team name. Matching
// is case-insensitive; unknown teams are ignored.
func (a *Aggregator) ApplyExpectedGoals(xg map[string]float64) {
	if len(xg) == 0 {
		return
	}
	lookup := make(map[string]float64, len(xg))
	for team, v := range xg {
		lookup[strings.ToLower(strings.TrimSpace(team))] = v
	}
	for _, m := range a.teams {
		if v, ok := lookup[strings.ToLower(m.Team)]; ok {
			m.ExpectedGoals = v
		}
	}
}

// TeamMetrics returns the season totals sorted by team name.
func (a *Aggregator) TeamMetrics() []domain.TeamSeasonMetrics {
	out := make([]domain.TeamSeasonMetrics, 0, len(a.teams))
	for _, m := range a.teams {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Team < out[j].Team })
	return out
}

// WeekMetrics returns the per-match duel rows sorted by week, then team.
func (a *Aggregator) WeekMetrics() []domain.TeamWeekMetrics {
	out := make([]domain.TeamWeekMetrics, len(a.weeks))
	copy(out, a.weeks)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Week != out[j].Week {
			return out[i].Week < out[j].Week
		}
		return out[i].Team < out[j].Team
	})
	return out
}
