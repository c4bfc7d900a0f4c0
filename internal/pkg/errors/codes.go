package errors

import "net/http"

// Validation errors (400)
var (
	ErrValidation = New(
		"VALIDATION_ERROR",
		"Validation failed",
		http.StatusBadRequest,
	)

	ErrInvalidGeometry = New(
		"INVALID_GEOMETRY",
		"Invalid polygon geometry",
		http.StatusBadRequest,
	)

	ErrInvalidZoom = New(
		"INVALID_ZOOM",
		"Invalid zoom level",
		http.StatusBadRequest,
	)

	ErrInvalidBoundingBox = New(
		"INVALID_BOUNDING_BOX",
		"Invalid bounding box",
		http.StatusBadRequest,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)
)

// Collaborator errors (500)
var (
	ErrAggregationFailed = New(
		"AGGREGATION_FAILED",
		"Cluster aggregation failed",
		http.StatusInternalServerError,
	)

	ErrPersistence = New(
		"PERSISTENCE_ERROR",
		"Storage operation failed",
		http.StatusInternalServerError,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)

// IsValidation проверяет, является ли ошибка ошибкой входных данных
func IsValidation(err error) bool {
	appErr, ok := As(err)
	return ok && appErr.StatusCode == http.StatusBadRequest
}
