package shared

import "fmt"

var (
	ErrNotImplemented  = fmt.Errorf("not implemented")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Remote errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrUnsuccessful       = fmt.Errorf("API reported failure")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrPlaylistNotFound   = fmt.Errorf("playlist not found")

	// Rejections. Callers treat these as silent no-ops.
	ErrInvalidInput      = fmt.Errorf("invalid input")
	ErrEmptyURL          = fmt.Errorf("%w: empty url", ErrInvalidInput)
	ErrBlankName         = fmt.Errorf("%w: blank playlist name", ErrInvalidInput)
	ErrDuplicateName     = fmt.Errorf("%w: playlist already exists", ErrInvalidInput)
	ErrUnknownPlaylist   = fmt.Errorf("%w: unknown playlist", ErrInvalidInput)
	ErrProtectedPlaylist = fmt.Errorf("%w: default playlist cannot be deleted", ErrInvalidInput)
	ErrItemNotFound      = fmt.Errorf("%w: item not found", ErrInvalidInput)
)
