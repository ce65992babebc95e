package hashtag

// Error codes attached to AppError values raised by this domain. The HTTP
// layer maps them to response statuses.
const (
	// CodeInvalidInput marks malformed or out-of-bound request parameters.
	CodeInvalidInput = "invalid_input"
	// CodeEngineError marks an unreachable engine or a non-success status.
	CodeEngineError = "engine_error"
	// CodeUnparseablePayload marks an engine payload with no candidate text
	// at all, distinct from one that merely yields zero usable hashtags.
	CodeUnparseablePayload = "unparseable_payload"
	// CodeNoHashtags marks the terminal case where even synthesis had no
	// material to work with.
	CodeNoHashtags = "no_hashtags"
)
