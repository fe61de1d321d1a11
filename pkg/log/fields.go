package log

const (
	// Request
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldLatency   = "latency_ms"
	FieldClientIP  = "client_ip"

	// Actor (matches pkg/middleware/auth.go keys)
	FieldSubject = "subject"

	// Service
	FieldService = "service"

	// Identifiers
	FieldPrefix    = "prefix"
	FieldWidth     = "width"
	FieldSource    = "source"
	FieldCount     = "count"
	FieldID        = "id"
	FieldErrorCode = "error_code"

	// Log type (for audit log)
	FieldLogType = "log_type"
	LogTypeAudit = "audit"
)
