package config

import "time"

// Application constants for the PitchPulse system
const (
	// Application Info
	AppName    = "PitchPulse"
	AppVersion = "0.3.0"

	// Security Constants
	MaxLoginAttempts   = 5
	LoginBlockDuration = 15 * time.Minute
	SessionTimeout     = 24 * time.Hour

	// Rate Limiting
	DefaultRateLimit = 100 // requests per minute
	DefaultBurstSize = 50

	// Network Timeouts
	DefaultHTTPTimeout  = 30 * time.Second
	FeedRequestTimeout  = 30 * time.Second
	SheetsTimeout       = 45 * time.Second
	WebSocketPingPeriod = 30 * time.Second
	WebSocketPongWait   = 60 * time.Second

	// File Paths (relative to executable)
	DefaultDataDir     = "data"
	DefaultLogsDir     = "logs"
	DefaultWebDir      = "web"
	DefaultRawDir      = "data/raw"
	DefaultDatasetsDir = "data/datasets"

	// Cache Settings
	DatasetCacheDuration = 15 * time.Minute
	SummaryCacheDuration = 1 * time.Hour

	// Operation Timeouts
	DefaultOperationTimeout = 2 * time.Hour
	ScraperTimeout          = 30 * time.Minute
	ProcessorTimeout        = 1 * time.Hour
	ExportTimeout           = 15 * time.Minute

	// WebSocket Buffer Sizes
	WebSocketReadBufferSize  = 1024
	WebSocketWriteBufferSize = 1024

	// Log Settings
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "json"
	MaxLogFileSize    = 100 * 1024 * 1024 // 100MB
	MaxLogFileAge     = 30                // days
	MaxLogFileBackups = 10

	// Dataset file names written per season
	FixturesCSV       = "fixtures.csv"
	StandingsCSV      = "standings.csv"
	TeamMetricsCSV    = "team_metrics.csv"
	WeekMetricsCSV    = "week_metrics.csv"
	PlayersCSV        = "players.csv"
	NationalitiesCSV  = "nationalities.csv"
	SummaryCSV        = "summary.csv"
	PlayerStatsSubdir = "player_stats"
	ShotsSubdir       = "shots"
	SeasonWorkbook    = "season.xlsx"

	// Raw feed file names written per season
	FixturesJSON  = "fixtures.json"
	StandingsJSON = "standings.json"
	SquadsJSON    = "squads.json"
	MatchesSubdir = "matches"
)

// API endpoints (internal)
const (
	APIBasePath        = "/api"
	AuthEndpoint       = "/api/auth"
	OperationsEndpoint = "/api/operations"
	DataEndpoint       = "/api/data"
	HealthEndpoint     = "/api/health"
	MetricsEndpoint    = "/metrics"
	WebSocketEndpoint  = "/ws"
)
