package logging

import "log/slog"

// Field keys shared across packages so log lines stay searchable.
const (
	FieldService    = "service"
	FieldVersion    = "version"
	FieldGateway    = "gateway"
	FieldRequestID  = "request_id"
	FieldSessionID  = "session_id"
	FieldMatchID    = "match_id"
	FieldAction     = "action"
	FieldInnings    = "innings"
	FieldState      = "state"
	FieldPath       = "path"
	FieldMethod     = "method"
	FieldStatusCode = "status_code"
	FieldCount      = "count"
	FieldDurationMS = "duration_ms"
)

// WithCommon appends service/version fields when provided.
func WithCommon(attrs []slog.Attr, service, version string) []slog.Attr {
	if service != "" {
		attrs = append(attrs, slog.String(FieldService, service))
	}
	if version != "" {
		attrs = append(attrs, slog.String(FieldVersion, version))
	}
	return attrs
}
