package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Fetch errors
	ErrNetwork = fmt.Errorf("network error")
	ErrParse   = fmt.Errorf("parse error")
	ErrTimeout = fmt.Errorf("operation timed out")

	// Service and state errors
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrEpisodeNotFound    = fmt.Errorf("episode not found")
	ErrNotLoaded          = fmt.Errorf("episodes not loaded")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFormat   = fmt.Errorf("invalid output format")
)
