package domain

// Event type identifiers used by the match event feed. Only the types the
// platform aggregates are named; everything else is passed through by ID.
const (
	EventTypePass         = 1
	EventTypeMiss         = 13 // shot off target
	EventTypeAttemptSaved = 15 // shot on target, saved
	EventTypeGoal         = 16
	EventTypeAerialDuel   = 44
	EventTypeDuel         = 45 // ground duel
)

// Outcome values. The feed uses 1 for a successful action.
const (
	OutcomeFail    = 0
	OutcomeSuccess = 1
)

// Pitch dimensions for the UEFA coordinate space. Feed coordinates are
// percentages (0-100) of pitch length and width.
const (
	PitchLength = 105.0
	PitchWidth  = 68.0
)

// MatchEvent is a single event from the match event feed.
type MatchEvent struct {
	EventID      int         `json:"event_id"`
	TypeID       int         `json:"type_id"`
	PeriodID     int         `json:"period_id"`
	TimeMin      int         `json:"time_min"`
	TimeSec      int         `json:"time_sec"`
	ContestantID string      `json:"contestant_id,omitempty"`
	PlayerID     string      `json:"player_id,omitempty"`
	PlayerName   string      `json:"player_name,omitempty"`
	X            float64     `json:"x"`
	Y            float64     `json:"y"`
	Outcome      int         `json:"outcome"`
	Qualifiers   []Qualifier `json:"qualifiers,omitempty"`
}

// Qualifier is an event qualifier (id plus optional value).
type Qualifier struct {
	QualifierID int    `json:"qualifier_id"`
	Value       string `json:"value,omitempty"`
}

// IsShot reports whether the event is a shot attempt (miss, saved or goal).
func (e MatchEvent) IsShot() bool {
	switch e.TypeID {
	case EventTypeMiss, EventTypeAttemptSaved, EventTypeGoal:
		return true
	}
	return false
}

// IsDuel reports whether the event is a ground or aerial duel.
func (e MatchEvent) IsDuel() bool {
	return e.TypeID == EventTypeDuel || e.TypeID == EventTypeAerialDuel
}

// Succeeded reports whether the event outcome was successful.
func (e MatchEvent) Succeeded() bool {
	return e.Outcome == OutcomeSuccess
}

// ShotPoint is a shot event projected onto UEFA pitch coordinates for the
// dashboard's shot map.
type ShotPoint struct {
	MatchID  string  `json:"match_id"`
	TypeID   int     `json:"type_id"`
	PeriodID int     `json:"period_id"`
	TimeMin  int     `json:"time_min"`
	TimeSec  int     `json:"time_sec"`
	X        float64 `json:"x"` // feed percentage 0-100
	Y        float64 `json:"y"`
	PitchX   float64 `json:"pitch_x"` // metres, 0-105
	PitchY   float64 `json:"pitch_y"` // metres, 0-68
}

// NewShotPoint converts a shot event to pitch coordinates.
func NewShotPoint(matchID string, e MatchEvent) ShotPoint {
	return ShotPoint{
		MatchID:  matchID,
		TypeID:   e.TypeID,
		PeriodID: e.PeriodID,
		TimeMin:  e.TimeMin,
		TimeSec:  e.TimeSec,
		X:        e.X,
		Y:        e.Y,
		PitchX:   e.X * PitchLength / 100.0,
		PitchY:   e.Y * PitchWidth / 100.0,
	}
}
