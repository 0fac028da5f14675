package httpx

import (
	"errors"
	"net/http"
)

// Sentinel errors shared by the domain packages. Wrap them with fmt.Errorf
// and %w to attach detail.
var (
	ErrNotFound      = errors.New("resource not found")
	ErrDuplicate     = errors.New("duplicate entry")
	ErrConflict      = errors.New("resource in use")
	ErrValidation    = errors.New("validation failed")
	ErrUnprocessable = errors.New("unprocessable input")
	ErrForbidden     = errors.New("forbidden")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrUnavailable   = errors.New("service unavailable")
)

type problemKind struct {
	target error
	status int
	title  string
}

// First match wins.
var problemKinds = []problemKind{
	{ErrNotFound, http.StatusNotFound, "Not Found"},
	{ErrDuplicate, http.StatusConflict, "Duplicate"},
	{ErrConflict, http.StatusConflict, "Conflict"},
	{ErrValidation, http.StatusBadRequest, "Validation Failed"},
	{ErrUnprocessable, http.StatusUnprocessableEntity, "Unprocessable Entity"},
	{ErrForbidden, http.StatusForbidden, "Forbidden"},
	{ErrUnauthorized, http.StatusUnauthorized, "Unauthorized"},
	{ErrUnavailable, http.StatusServiceUnavailable, "Service Unavailable"},
}

// RespondError writes err as an RFC7807 problem. Unknown errors become a 500
// without detail so internals do not leak.
func RespondError(w http.ResponseWriter, err error) {
	for _, k := range problemKinds {
		if errors.Is(err, k.target) {
			Problem(w, k.status, k.title, err.Error())
			return
		}
	}
	Problem(w, http.StatusInternalServerError, "Internal Error", "")
}
