package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// ============================================
// Tracing Fields (Context level)
// These fields are propagated through the call chain
// ============================================

const (
	// FieldRequestID is the per-request ID (UUID) sent as X-Request-ID
	FieldRequestID = "request_id"

	// FieldUploadID is the backend-assigned upload (job) ID
	FieldUploadID = "upload_id"

	// FieldSubmissionID is the client-side ID of a submission attempt
	FieldSubmissionID = "submission_id"

	// FieldComponent is the component/module name
	FieldComponent = "component"

	// FieldOperation is the backend operation being called
	FieldOperation = "operation"
)

// ============================================
// Metric Fields (Entry level)
// ============================================

const (
	// FieldDurationMs is the execution duration in milliseconds
	FieldDurationMs = "duration_ms"

	// FieldCount is a generic count field
	FieldCount = "count"

	// FieldStatus is the HTTP or job status
	FieldStatus = "status"

	// FieldProcessed is the processed item count of a job
	FieldProcessed = "processed_items"

	// FieldTotal is the total item count of a job
	FieldTotal = "total_items"

	// FieldSize is a response size in bytes
	FieldSize = "size"
)
