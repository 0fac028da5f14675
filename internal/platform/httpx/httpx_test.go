package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondErrorStatus(t *testing.T) {
	cases := map[string]struct {
		err    error
		status int
	}{
		"not found":   {fmt.Errorf("vehicle 4: %w", ErrNotFound), http.StatusNotFound},
		"duplicate":   {ErrDuplicate, http.StatusConflict},
		"conflict":    {fmt.Errorf("%w: key reused", ErrConflict), http.StatusConflict},
		"validation":  {ErrValidation, http.StatusBadRequest},
		"merge input": {fmt.Errorf("%w: text file", ErrUnprocessable), http.StatusUnprocessableEntity},
		"unavailable": {ErrUnavailable, http.StatusServiceUnavailable},
		"token":       {ErrUnauthorized, http.StatusUnauthorized},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			RespondError(rr, tc.err)
			assert.Equal(t, tc.status, rr.Code)
			assert.Equal(t, "application/problem+json", rr.Header().Get("Content-Type"))
			assert.Contains(t, rr.Body.String(), tc.err.Error())
		})
	}
}

func TestRespondErrorHidesInternalDetail(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondError(rr, errors.New("dial tcp 10.0.0.3:5432: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "10.0.0.3")
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	var target struct {
		Plate string `json:"plate"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"plate":"123","colour":"red"}`))
	assert.ErrorIs(t, DecodeJSON(req, &target), ErrValidation)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"plate":"123"}`))
	require.NoError(t, DecodeJSON(req, &target))
	assert.Equal(t, "123", target.Plate)
}

func TestDownloadHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	Download(rr, "application/pdf", "contract-CT-2024-0001.pdf", []byte("%PDF"))
	assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
	assert.Equal(t, "4", rr.Header().Get("Content-Length"))
	assert.Equal(t, `attachment; filename=contract-CT-2024-0001.pdf`, rr.Header().Get("Content-Disposition"))
}
