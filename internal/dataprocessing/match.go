package dataprocessing

import (
	"strconv"
	"strings"
	"time"

	"pitchpulse/internal/feeds"
	"pitchpulse/pkg/contracts/domain"
)

// Date layouts the feed has been observed to use. Timestamps sometimes
// carry a trailing "Z" that is stripped before parsing.
var feedDateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseFeedDate parses a feed timestamp. The zero time is returned for an
// empty or unparseable value.
func ParseFeedDate(raw string) time.Time {
	s := strings.TrimSuffix(strings.TrimSpace(raw), "Z")
	if s == "" {
		return time.Time{}
	}
	for _, layout := range feedDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// parseIntDefault parses a numeric string, returning def when the value is
// empty or malformed. Feed stat values arrive as strings.
func parseIntDefault(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

// convertEvent maps a wire event to the domain representation.
func convertEvent(e feeds.Event) domain.MatchEvent {
	ev := domain.MatchEvent{
		EventID:      e.EventID,
		TypeID:       e.TypeID,
		PeriodID:     e.PeriodID,
		TimeMin:      e.TimeMin,
		TimeSec:      e.TimeSec,
		ContestantID: e.ContestantID,
		PlayerID:     e.PlayerID,
		PlayerName:   e.PlayerName,
		X:            e.X,
		Y:            e.Y,
		Outcome:      e.Outcome,
	}
	for _, q := range e.Qualifiers {
		ev.Qualifiers = append(ev.Qualifiers, domain.Qualifier{
			QualifierID: q.QualifierID,
			Value:       q.Value,
		})
	}
	return ev
}

// MatchEvents converts all events of a match document.
func MatchEvents(doc *feeds.MatchDocument) []domain.MatchEvent {
	events := make([]domain.MatchEvent, 0, len(doc.LiveData.Events))
	for _, e := range doc.LiveData.Events {
		events = append(events, convertEvent(e))
	}
	return events
}

// contestantNames maps contestant IDs to display names for one match.
func contestantNames(info feeds.MatchInfo) map[string]string {
	names := make(map[string]string, len(info.Contestants))
	for _, c := range info.Contestants {
		names[c.ID] = c.Name
	}
	return names
}

// homeAway returns the home and away contestants of a match, relying on the
// feed's position field.
func homeAway(info feeds.MatchInfo) (home, away feeds.Contestant) {
	for _, c := range info.Contestants {
		switch c.Position {
		case "home":
			home = c
		case "away":
			away = c
		}
	}
	return home, away
}
