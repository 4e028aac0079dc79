package common

import "net/http"

type ErrorKind int

const (
	KindUnauthorized ErrorKind = iota
	KindForbidden
	KindNotFound
	KindBadRequest
	KindValidation
	KindConflict
	KindTooManyRequests
	KindServiceUnavailable
	KindInternal
	KindBackend
)

// ApiError is the only error type that crosses the service boundary.
// The router translates it into the HTTP status and machine-readable code
// in exactly one place.
type ApiError struct {
	Kind    ErrorKind
	Message string
}

func (ae *ApiError) Error() string {
	return ae.Message
}

func UnauthorizedError(message string) *ApiError {
	return &ApiError{Kind: KindUnauthorized, Message: message}
}

func ForbiddenError(message string) *ApiError {
	return &ApiError{Kind: KindForbidden, Message: message}
}

func NotFoundError(message string) *ApiError {
	return &ApiError{Kind: KindNotFound, Message: message}
}

func BadRequestError(message string) *ApiError {
	return &ApiError{Kind: KindBadRequest, Message: message}
}

func ValidationError(message string) *ApiError {
	return &ApiError{Kind: KindValidation, Message: message}
}

func ConflictError(message string) *ApiError {
	return &ApiError{Kind: KindConflict, Message: message}
}

func TooManyRequestsError(message string) *ApiError {
	return &ApiError{Kind: KindTooManyRequests, Message: message}
}

func ServiceUnavailableError(message string) *ApiError {
	return &ApiError{Kind: KindServiceUnavailable, Message: message}
}

func InternalError(message string) *ApiError {
	return &ApiError{Kind: KindInternal, Message: message}
}

func BackendError(message string) *ApiError {
	return &ApiError{Kind: KindBackend, Message: message}
}

func (k ErrorKind) HttpStatus() int {
	switch k {
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindBadRequest:
		return http.StatusBadRequest
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindConflict:
		return http.StatusConflict
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	case KindServiceUnavailable:
		return http.StatusServiceUnavailable
	case KindInternal:
		return http.StatusInternalServerError
	case KindBackend:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func (k ErrorKind) Code() string {
	switch k {
	case KindUnauthorized:
		return "UNAUTHORIZED"
	case KindForbidden:
		return "FORBIDDEN"
	case KindNotFound:
		return "NOT_FOUND"
	case KindBadRequest:
		return "BAD_REQUEST"
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindConflict:
		return "CONFLICT"
	case KindTooManyRequests:
		return "TOO_MANY_REQUESTS"
	case KindServiceUnavailable:
		return "SERVICE_UNAVAILABLE"
	case KindInternal:
		return "INTERNAL_ERROR"
	case KindBackend:
		return "SERVICE_ERROR"
	default:
		return "INTERNAL_ERROR"
	}
}

// PublicMessage is what the caller sees. Internal and backend failures keep
// their detail server-side and return a generic message instead.
func (ae *ApiError) PublicMessage() string {
	switch ae.Kind {
	case KindInternal:
		return "An internal error occurred"
	case KindBackend:
		return "A service error occurred"
	default:
		return ae.Message
	}
}
