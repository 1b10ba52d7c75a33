package operations

import (
	"time"
)

// Step identifiers
const (
	StepIDScrape  = "scrape"
	StepIDProcess = "process"
	StepIDExport  = "export"
	StepIDPublish = "publish"
)

// Step display names
const (
	StepNameScrape  = "Feed Collection"
	StepNameProcess = "Season Aggregation"
	StepNameExport  = "Dataset Export"
	StepNamePublish = "Sheets Publish"
)

// Config keys passed from the request into the operation state. A run
// always targets one season of one competition.
const (
	ConfigKeyContinent    = "continent"
	ConfigKeyCountry      = "country"
	ConfigKeyCompetition  = "competition"
	ConfigKeySeason       = "season"
	ConfigKeyTournamentID = "tournament_id"
	ConfigKeySlug         = "slug"
	ConfigKeyMode         = "mode"
)

// Context keys steps use to hand results to later steps.
const (
	ContextKeyMatchesFetched = "matches_fetched"
	ContextKeyMatchesSkipped = "matches_skipped"
	ContextKeyDataset        = "dataset"
	ContextKeyWorkbookPath   = "workbook_path"
)

// Scrape modes. Accumulative fetches only matches not yet on disk, full
// refetches everything.
const (
	ModeAccumulative = "accumulative"
	ModeFull         = "full"
)

// Default step timeouts
const (
	DefaultStepTimeout    = 30 * time.Minute
	DefaultScrapeTimeout  = 60 * time.Minute
	DefaultProcessTimeout = 30 * time.Minute
	DefaultExportTimeout  = 15 * time.Minute
	DefaultPublishTimeout = 5 * time.Minute
)

// RetryConfig defines retry behavior for steps
type RetryConfig struct {
	MaxAttempts  int           `json:"max_attempts"`
	InitialDelay time.Duration `json:"initial_delay"`
	MaxDelay     time.Duration `json:"max_delay"`
	Multiplier   float64       `json:"multiplier"`
}

// NewRetryConfig returns the default retry configuration
func NewRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
}

// OperationRequest is a request to run a season pipeline.
type OperationRequest struct {
	ID           string                 `json:"id"`
	Continent    string                 `json:"continent"`
	Country      string                 `json:"country"`
	Competition  string                 `json:"competition" validate:"required"`
	Season       string                 `json:"season" validate:"required,season"`
	TournamentID string                 `json:"tournament_id"`
	Slug         string                 `json:"slug"`
	Mode         string                 `json:"mode,omitempty"`
	Parameters   map[string]interface{} `json:"parameters,omitempty"`
}

// OperationResponse is the result of an operation execution.
type OperationResponse struct {
	ID       string                `json:"id"`
	Status   OperationStatusValue  `json:"status"`
	Duration time.Duration         `json:"duration"`
	Steps    map[string]*StepState `json:"steps"`
	Error    string                `json:"error,omitempty"`
}
