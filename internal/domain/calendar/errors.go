package calendar

import "errors"

var (
	ErrNotConnected        = errors.New("google calendar is not connected")
	ErrEventNotFound       = errors.New("calendar event not found")
	ErrProviderUnavailable = errors.New("calendar provider request failed")
	ErrInvalidICS          = errors.New("invalid ics file")
	ErrMissionNotFound     = errors.New("mission not found")
)

// Callback failure reasons, passed to the frontend as ?error=<reason>.
const (
	ReasonAuthFailed          = "auth_failed"
	ReasonNoCode              = "no_code"
	ReasonInvalidState        = "invalid_state"
	ReasonNotAuthenticated    = "not_authenticated"
	ReasonTokenExchangeFailed = "token_exchange_failed"
	ReasonDBError             = "db_error"
)
