package models

import "time"

// ExecutionConfig holds the protocol tuning parameters persisted in the
// key-value store under the adw_execution_config key. It is read wholesale
// and overwritten wholesale; there is no partial merge.
type ExecutionConfig struct {
	AutoExecute            bool `json:"autoExecute"`
	FallbackToManual       bool `json:"fallbackToManual"`
	CleanupAfterCompletion bool `json:"cleanupAfterCompletion"`
	// PollingInterval is in milliseconds and must be positive.
	PollingInterval int `json:"pollingInterval" validate:"gt=0"`
}

// DefaultExecutionConfig returns the configuration substituted whenever the
// stored value is absent or corrupt.
func DefaultExecutionConfig() ExecutionConfig {
	return ExecutionConfig{
		AutoExecute:            true,
		FallbackToManual:       true,
		CleanupAfterCompletion: true,
		PollingInterval:        2000,
	}
}

// PollingDuration converts the millisecond interval for use with tickers.
func (c ExecutionConfig) PollingDuration() time.Duration {
	return time.Duration(c.PollingInterval) * time.Millisecond
}

// Valid reports whether the configuration can be used as stored.
func (c ExecutionConfig) Valid() bool {
	return c.PollingInterval > 0
}
