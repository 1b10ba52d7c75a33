package operations

import "time"

// Config holds execution settings for pipeline runs
type Config struct {
	// StepTimeouts maps step IDs to their execution timeouts
	StepTimeouts map[string]time.Duration

	// DefaultTimeout applies to steps without an explicit timeout
	DefaultTimeout time.Duration

	// RetryConfig controls retry behavior for retryable step failures
	Retry *RetryConfig

	// ContinueOnError lets independent steps keep running after a failure.
	// Dependent steps are still skipped.
	ContinueOnError bool
}

// DefaultConfig returns the standard pipeline configuration
func DefaultConfig() *Config {
	retry := NewRetryConfig()
	return &Config{
		StepTimeouts: map[string]time.Duration{
			StepIDScrape:  DefaultScrapeTimeout,
			StepIDProcess: DefaultProcessTimeout,
			StepIDExport:  DefaultExportTimeout,
			StepIDPublish: DefaultPublishTimeout,
		},
		DefaultTimeout: DefaultStepTimeout,
		Retry:          &retry,
	}
}

// GetStepTimeout returns the timeout for a step
func (c *Config) GetStepTimeout(stepID string) time.Duration {
	if timeout, ok := c.StepTimeouts[stepID]; ok {
		return timeout
	}
	if c.DefaultTimeout > 0 {
		return c.DefaultTimeout
	}
	return DefaultStepTimeout
}
