package types

import "errors"

// Error kinds surfaced by the pipeline. Handlers match on these with
// errors.Is to report the failing stage's error kind to callers.
var (
	// ErrInvalidDuration indicates a non-positive chunk window duration.
	ErrInvalidDuration = errors.New("invalid window duration")

	// ErrEmbeddingService indicates a window was unusable for embedding or
	// the embedding call itself failed.
	ErrEmbeddingService = errors.New("embedding service failure")

	// ErrInsufficientData indicates there were no embeddings to cluster.
	ErrInsufficientData = errors.New("insufficient data for clustering")

	// ErrExternalService indicates an ASR/translation/summarization call
	// failed or returned malformed output.
	ErrExternalService = errors.New("external service failure")

	// ErrTimeout indicates an external call exceeded its deadline.
	ErrTimeout = errors.New("external service timeout")
)

// ErrorKind returns the symbolic name of an error's kind for API responses.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidDuration):
		return "InvalidDurationError"
	case errors.Is(err, ErrEmbeddingService):
		return "EmbeddingServiceError"
	case errors.Is(err, ErrInsufficientData):
		return "InsufficientDataError"
	case errors.Is(err, ErrTimeout):
		return "Timeout"
	case errors.Is(err, ErrExternalService):
		return "ExternalServiceError"
	default:
		return "InternalError"
	}
}
