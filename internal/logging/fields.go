package logging

import "log/slog"

// Common field names for consistent logging.
const (
	FieldRequestID = "request_id"
	FieldOperation = "op"
	FieldStatus    = "status"
	FieldDuration  = "duration_ms"
	FieldError     = "error"
	FieldFiles     = "files"
	FieldEvents    = "events"
)

// Operation returns a slog attribute for a backend operation name.
func Operation(op string) slog.Attr {
	return slog.String(FieldOperation, op)
}

// Status returns a slog attribute for the HTTP status code.
func Status(code int) slog.Attr {
	return slog.Int(FieldStatus, code)
}

// Duration returns a slog attribute for duration in milliseconds.
func Duration(ms int64) slog.Attr {
	return slog.Int64(FieldDuration, ms)
}

// Error returns a slog attribute for an error.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(FieldError, "")
	}
	return slog.String(FieldError, err.Error())
}
