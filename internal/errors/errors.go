package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrDuplicateEmail is returned when registering an email that already exists.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalidCredentials is returned for an unknown email or a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrNotFound is returned when a user is not found.
	ErrNotFound = errors.New("user not found")
	// ErrEmptyContent is returned when a post body is blank.
	ErrEmptyContent = errors.New("post content must not be empty")
	// ErrInvalidProfile is returned when a required profile field is missing.
	ErrInvalidProfile = errors.New("public name, pin code and area are required")
	// ErrProfileIncomplete is returned when the feed is requested before profile setup.
	ErrProfileIncomplete = errors.New("complete your public profile first")
	// ErrProfileAlreadyComplete is returned when profile setup runs a second time.
	ErrProfileAlreadyComplete = errors.New("public profile is already set up")
	// ErrUnauthenticated is returned when no valid session is present.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrInvalidRefreshToken is returned when refresh token is invalid or expired.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	// ErrStorageUnavailable wraps failures of the underlying database.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrDuplicateEmail):
		return NewHTTPError(http.StatusConflict, ErrDuplicateEmail.Error(), "DUPLICATE_EMAIL")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, ErrNotFound.Error(), "NOT_FOUND")
	case errors.Is(err, ErrEmptyContent):
		return NewHTTPError(http.StatusBadRequest, ErrEmptyContent.Error(), "EMPTY_CONTENT")
	case errors.Is(err, ErrInvalidProfile):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidProfile.Error(), "INVALID_PROFILE")
	case errors.Is(err, ErrProfileIncomplete):
		return NewHTTPError(http.StatusForbidden, ErrProfileIncomplete.Error(), "PROFILE_INCOMPLETE")
	case errors.Is(err, ErrProfileAlreadyComplete):
		return NewHTTPError(http.StatusConflict, ErrProfileAlreadyComplete.Error(), "PROFILE_ALREADY_COMPLETE")
	case errors.Is(err, ErrUnauthenticated):
		return NewHTTPError(http.StatusUnauthorized, ErrUnauthenticated.Error(), "UNAUTHENTICATED")
	case errors.Is(err, ErrInvalidRefreshToken):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidRefreshToken.Error(), "INVALID_REFRESH_TOKEN")
	case errors.Is(err, ErrStorageUnavailable):
		return NewHTTPError(http.StatusServiceUnavailable, ErrStorageUnavailable.Error(), "STORAGE_UNAVAILABLE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
