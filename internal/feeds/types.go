package feeds

// Wire types for the soccerdata feed documents. Field names follow the
// JSON the feed emits; only the parts the pipeline consumes are mapped.

// FixtureFeed is the tournament fixture document (soccerdata/match with tmcl).
type FixtureFeed struct {
	Matches []MatchDocument `json:"match"`
}

// MatchDocument is one match as it appears in both the fixture feed and
// the per-match event feed (soccerdata/matchevent, soccerdata/matchstats).
type MatchDocument struct {
	MatchInfo MatchInfo `json:"matchInfo"`
	LiveData  LiveData  `json:"liveData"`
}

// MatchInfo carries the scheduling metadata for a match.
type MatchInfo struct {
	ID            string       `json:"id"`
	Date          string       `json:"date"`
	Time          string       `json:"time"`
	LocalDate     string       `json:"localDate"`
	LocalTime     string       `json:"localTime"`
	Description   string       `json:"description"`
	MatchStatus   string       `json:"matchStatus"`
	CoverageLevel string       `json:"coverageLevel"`
	LastUpdated   string       `json:"lastUpdated"`
	Attendance    string       `json:"attendance"`
	Week          string       `json:"week"`
	Contestants   []Contestant `json:"contestant"`
	Venue         *Venue       `json:"venue,omitempty"`
	Weather       *Weather     `json:"weather,omitempty"`
	Competition   *FeedEntity  `json:"competition,omitempty"`
	TournamentCal *FeedEntity  `json:"tournamentCalendar,omitempty"`
}

// Contestant is one of the two teams in a match.
type Contestant struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	ShortName    string      `json:"shortName"`
	OfficialName string      `json:"officialName"`
	Code         string      `json:"code"`
	Position     string      `json:"position"`
	Country      *FeedEntity `json:"country,omitempty"`
}

// Venue describes the stadium a match is played at.
type Venue struct {
	ID        string `json:"id"`
	ShortName string `json:"shortName"`
	LongName  string `json:"longName"`
}

// Weather describes pitch-side conditions when the feed carries them.
type Weather struct {
	Temperature string `json:"temperature"`
	Conditions  string `json:"conditions"`
}

// FeedEntity is a generic id/name pair the feed uses for competitions,
// tournament calendars and countries.
type FeedEntity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LiveData carries events, line-ups and scores for a match.
type LiveData struct {
	MatchDetails MatchDetails `json:"matchDetails"`
	Events       []Event      `json:"event"`
	LineUps      []LineUp     `json:"lineUp"`
}

// MatchDetails holds the result block.
type MatchDetails struct {
	MatchStatus    string  `json:"matchStatus"`
	Winner         string  `json:"winner"`
	MatchLengthMin int     `json:"matchLengthMin"`
	Scores         *Scores `json:"scores,omitempty"`
}

// Scores holds half-time and full-time scores.
type Scores struct {
	HT    *ScorePair `json:"ht,omitempty"`
	FT    *ScorePair `json:"ft,omitempty"`
	Total *ScorePair `json:"total,omitempty"`
}

// ScorePair is a home/away goal count.
type ScorePair struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// Event is a single on-pitch event.
type Event struct {
	ID           int64       `json:"id"`
	EventID      int         `json:"eventId"`
	TypeID       int         `json:"typeId"`
	PeriodID     int         `json:"periodId"`
	TimeMin      int         `json:"timeMin"`
	TimeSec      int         `json:"timeSec"`
	ContestantID string      `json:"contestantId"`
	PlayerID     string      `json:"playerId"`
	PlayerName   string      `json:"playerName"`
	Outcome      int         `json:"outcome"`
	X            float64     `json:"x"`
	Y            float64     `json:"y"`
	TimeStamp    string      `json:"timeStamp"`
	Qualifiers   []Qualifier `json:"qualifier"`
}

// Qualifier annotates an event with extra detail.
type Qualifier struct {
	ID          int64  `json:"id"`
	QualifierID int    `json:"qualifierId"`
	Value       string `json:"value"`
}

// LineUp is one team's line-up with per-player stats.
type LineUp struct {
	ContestantID string         `json:"contestantId"`
	Formation    string         `json:"formationUsed"`
	Players      []LineUpPlayer `json:"player"`
}

// LineUpPlayer is a player entry inside a line-up.
type LineUpPlayer struct {
	PlayerID     string       `json:"playerId"`
	FirstName    string       `json:"firstName"`
	LastName     string       `json:"lastName"`
	MatchName    string       `json:"matchName"`
	ShirtNumber  int          `json:"shirtNumber"`
	Position     string       `json:"position"`
	PositionSide string       `json:"positionSide"`
	Stats        []PlayerStat `json:"stat"`
}

// PlayerStat is a single named stat value. Values arrive as strings.
type PlayerStat struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// StandingsFeed is the tournament standings document (soccerdata/standings).
type StandingsFeed struct {
	Stages []StandingsStage `json:"stage"`
}

// StandingsStage is one stage of a tournament with its divisions.
type StandingsStage struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Divisions []StandingsDivision `json:"division"`
}

// StandingsDivision is one table within a stage.
type StandingsDivision struct {
	Type     string            `json:"type"`
	Rankings []StandingRanking `json:"ranking"`
}

// StandingRanking is one row of a standings table.
type StandingRanking struct {
	Rank           int    `json:"rank"`
	RankStatus     string `json:"rankStatus"`
	ContestantID   string `json:"contestantId"`
	ContestantName string `json:"contestantClubName"`
	Points         int    `json:"points"`
	MatchesPlayed  int    `json:"matchesPlayed"`
	MatchesWon     int    `json:"matchesWon"`
	MatchesDrawn   int    `json:"matchesDrawn"`
	MatchesLost    int    `json:"matchesLost"`
	GoalsFor       int    `json:"goalsFor"`
	GoalsAgainst   int    `json:"goalsAgainst"`
	Goaldifference string `json:"goaldifference"`
}

// SquadsFeed is the tournament squads document (soccerdata/squads).
type SquadsFeed struct {
	Squads []SquadEntry `json:"squad"`
}

// SquadEntry is one club's squad.
type SquadEntry struct {
	ContestantID        string        `json:"contestantId"`
	ContestantName      string        `json:"contestantClubName"`
	ContestantShortName string        `json:"contestantShortName"`
	Persons             []SquadPerson `json:"person"`
}

// SquadPerson is a squad member, players and staff alike.
type SquadPerson struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	MatchName   string `json:"matchName"`
	Type        string `json:"type"`
	Position    string `json:"position"`
	Nationality string `json:"nationality"`
	NationalityID string `json:"nationalityId"`
	DateOfBirth string `json:"dateOfBirth"`
	ShirtNumber int    `json:"shirtNumber"`
}
