package dashboard

import "errors"

var (
	// ErrMalformedResponse marks remote payloads that do not match the expected shape.
	ErrMalformedResponse = errors.New("dashboard: malformed response")
	// ErrRemoteUnavailable wraps network and upstream service failures.
	ErrRemoteUnavailable = errors.New("dashboard: remote service unavailable")
	// ErrUnknownSelection is returned for tab/option values outside the enumeration.
	ErrUnknownSelection = errors.New("dashboard: unknown selection")
	// ErrUnsupportedChart is returned when a table cannot be drawn with the requested chart kind.
	ErrUnsupportedChart = errors.New("dashboard: unsupported chart")
)
