package dataprocessing

import (
	"sort"

	"pitchpulse/internal/feeds"
	"pitchpulse/pkg/contracts/domain"
)

// Line-up stat types the player pages consume.
const (
	statMinsPlayed  = "minsPlayed"
	statGoals       = "goals"
	statGoalAssist  = "goalAssist"
	statYellowCard  = "yellowCard"
	statRedCard     = "redCard"
	statGameStarted = "gameStarted"
)

// PlayerCollector builds per-player match lines and season totals from the
// line-up blocks of match documents.
type PlayerCollector struct {
	players map[string]*playerRecord
}

type playerRecord struct {
	stats domain.PlayerSeasonStats
	lines []domain.PlayerMatchLine
}

// NewPlayerCollector returns an empty collector.
func NewPlayerCollector() *PlayerCollector {
	return &PlayerCollector{players: make(map[string]*playerRecord)}
}

// statValue returns the named stat parsed as an int, 0 when absent or
// malformed.
func statValue(stats []feeds.PlayerStat, name string) int {
	for _, s := range stats {
		if s.Type == name {
			return parseIntDefault(s.Value, 0)
		}
	}
	return 0
}

func playerName(p feeds.LineUpPlayer) string {
	if p.MatchName != "" {
		return p.MatchName
	}
	if p.FirstName == "" {
		return p.LastName
	}
	return p.FirstName + " " + p.LastName
}

// AddMatch records one match line per listed player. Players without a
// minsPlayed stat did not take part and are skipped.
func (c *PlayerCollector) AddMatch(doc *feeds.MatchDocument) {
	if doc == nil {
		return
	}
	info := doc.MatchInfo
	names := contestantNames(info)
	date := ParseFeedDate(info.LocalDate)
	if date.IsZero() {
		date = ParseFeedDate(info.Date)
	}

	for _, lineup := range doc.LiveData.LineUps {
		team := names[lineup.ContestantID]
		for _, p := range lineup.Players {
			minutes := statValue(p.Stats, statMinsPlayed)
			if minutes == 0 {
				continue
			}
			line := domain.PlayerMatchLine{
				MatchID:     info.ID,
				Date:        date,
				Description: info.Description,
				Minutes:     minutes,
				Goals:       statValue(p.Stats, statGoals),
				Assists:     statValue(p.Stats, statGoalAssist),
				Yellow:      statValue(p.Stats, statYellowCard),
				Red:         statValue(p.Stats, statRedCard),
				Started:     statValue(p.Stats, statGameStarted) == 1,
			}

			rec, ok := c.players[p.PlayerID]
			if !ok {
				rec = &playerRecord{stats: domain.PlayerSeasonStats{
					PlayerID:   p.PlayerID,
					PlayerName: playerName(p),
					Team:       team,
				}}
				c.players[p.PlayerID] = rec
			}
			rec.lines = append(rec.lines, line)

			rec.stats.Matches++
			rec.stats.Minutes += line.Minutes
			rec.stats.Goals += line.Goals
			rec.stats.Assists += line.Assists
			rec.stats.Yellow += line.Yellow
			rec.stats.Red += line.Red
			if line.Started {
				rec.stats.Starts++
			}
		}
	}
}

// SeasonStats returns the season roll-ups sorted by player name.
func (c *PlayerCollector) SeasonStats() []domain.PlayerSeasonStats {
	out := make([]domain.PlayerSeasonStats, 0, len(c.players))
	for _, rec := range c.players {
		out = append(out, rec.stats)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PlayerName != out[j].PlayerName {
			return out[i].PlayerName < out[j].PlayerName
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out
}

// MatchLines returns a player's match lines in chronological order, or nil
// for an unknown player.
func (c *PlayerCollector) MatchLines(playerID string) []domain.PlayerMatchLine {
	rec, ok := c.players[playerID]
	if !ok {
		return nil
	}
	lines := make([]domain.PlayerMatchLine, len(rec.lines))
	copy(lines, rec.lines)
	sort.Slice(lines, func(i, j int) bool { return lines[i].Date.Before(lines[j].Date) })
	return lines
}

// PlayerIDs returns all collected player IDs, sorted.
func (c *PlayerCollector) PlayerIDs() []string {
	ids := make([]string, 0, len(c.players))
	for id := range c.players {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
