package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")
	ErrMissingToken  = fmt.Errorf("missing access token")

	// Host connection errors
	ErrAuthFailed   = fmt.Errorf("authentication failed")
	ErrNotConnected = fmt.Errorf("not connected to host")
	ErrSessionDown  = fmt.Errorf("host session closed")
	ErrTimeout      = fmt.Errorf("operation timed out")

	// Gateway and sync errors
	ErrGatewayCall     = fmt.Errorf("gateway call failed")
	ErrInvalidListing  = fmt.Errorf("listing has neither tracks nor playlists")
	ErrNoActiveSession = fmt.Errorf("session context not initialized")
	ErrCyclePending    = fmt.Errorf("another sync cycle is pending")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
