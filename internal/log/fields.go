// Package log defines the field names used across structured log records,
// so the same event reads the same way in the server and the worker.
package log

const (
	FieldRequestID = "request_id"
	FieldClientIP  = "client_ip"
	FieldMethod    = "method"
	FieldPath      = "url"
	FieldStatus    = "status"
	FieldDuration  = "duration_ms"
	FieldError     = "error"
	FieldEntryID   = "entry_id"
	FieldMirrorRef = "mirror_ref"
	FieldAction    = "action"
)
