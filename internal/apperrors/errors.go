package apperrors

import "errors"

// Sentinel errors for the whole mutation path. Handlers map these onto HTTP
// status codes; everything else is treated as a transport failure.
var (
	ErrValidation        = errors.New("validation")          // 400
	ErrNotFound          = errors.New("not found")           // 404
	ErrReferenceNotFound = errors.New("reference not found") // 422
	ErrConstraint        = errors.New("constraint")          // 409
	ErrInvalidStatus     = errors.New("invalid status")      // 422
	ErrTransport         = errors.New("transport")           // 502
)
