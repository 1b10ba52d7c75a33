package services

import "errors"

// Data service errors
var (
	ErrLeagueNotFound  = errors.New("league not found")
	ErrSeasonNotFound  = errors.New("season not found")
	ErrClubNotFound    = errors.New("club not found")
	ErrPlayerNotFound  = errors.New("player not found")
	ErrDatasetMissing  = errors.New("dataset not found")
	ErrFileNotFound    = errors.New("file not found")
	ErrInvalidFileType = errors.New("invalid file type")

	// Operation errors
	ErrOperationNotFound = errors.New("operation not found")
	ErrInvalidRequest    = errors.New("invalid operation request")
)
