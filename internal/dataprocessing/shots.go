package dataprocessing

import (
	"sort"

	"pitchpulse/internal/feeds"
	"pitchpulse/pkg/contracts/domain"
)

// ShotCollector gathers shot events per player for the shot map pages.
type ShotCollector struct {
	byPlayer map[string][]domain.ShotPoint
}

// NewShotCollector returns an empty collector.
func NewShotCollector() *ShotCollector {
	return &ShotCollector{byPlayer: make(map[string][]domain.ShotPoint)}
}

// AddMatch records every shot event of the match, keyed by player.
func (c *ShotCollector) AddMatch(doc *feeds.MatchDocument) {
	if doc == nil {
		return
	}
	matchID := doc.MatchInfo.ID
	for _, raw := range doc.LiveData.Events {
		e := convertEvent(raw)
		if !e.IsShot() || e.PlayerID == "" {
			continue
		}
		c.byPlayer[e.PlayerID] = append(c.byPlayer[e.PlayerID], domain.NewShotPoint(matchID, e))
	}
}

// PlayerShots returns a player's shots ordered by match, period and time.
func (c *ShotCollector) PlayerShots(playerID string) []domain.ShotPoint {
	shots, ok := c.byPlayer[playerID]
	if !ok {
		return nil
	}
	out := make([]domain.ShotPoint, len(shots))
	copy(out, shots)
	sort.Slice(out, func(i, j int) bool {
		if out[i].MatchID != out[j].MatchID {
			return out[i].MatchID < out[j].MatchID
		}
		if out[i].PeriodID != out[j].PeriodID {
			return out[i].PeriodID < out[j].PeriodID
		}
		if out[i].TimeMin != out[j].TimeMin {
			return out[i].TimeMin < out[j].TimeMin
		}
		return out[i].TimeSec < out[j].TimeSec
	})
	return out
}

// PlayerIDs returns every player with at least one shot, sorted.
func (c *ShotCollector) PlayerIDs() []string {
	ids := make([]string, 0, len(c.byPlayer))
	for id := range c.byPlayer {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
