package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fbscore/fbscore/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapServiceErrorToHTTP(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{services.ErrUserNotFound, http.StatusNotFound},
		{services.ErrMatchNotFound, http.StatusNotFound},
		{services.ErrCommentNotFound, http.StatusNotFound},
		{services.ErrUserEmailConflict, http.StatusConflict},
		{services.ErrTeamNameConflict, http.StatusConflict},
		{services.ErrRequestAlreadyExists, http.StatusConflict},
		{services.ErrValidationFailed, http.StatusBadRequest},
		{services.ErrOTPInvalid, http.StatusBadRequest},
		{services.ErrMatchInPast, http.StatusBadRequest},
		{services.ErrMatchNotFullTime, http.StatusBadRequest},
		{services.ErrPlayerNotOnRosters, http.StatusBadRequest},
		{services.ErrInvalidCredentials, http.StatusUnauthorized},
		{services.ErrForbiddenOperation, http.StatusForbidden},
		{services.ErrMatchNotLive, http.StatusForbidden},
		{fmt.Errorf("unexpected: %w", services.ErrValidationFailed), http.StatusBadRequest},
		{fmt.Errorf("something broke"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			mapServiceErrorToHTTP(rec, req, tc.err)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestReadJSONRejectsUnknownFields(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x","bogus":1}`))
	rec := httptest.NewRecorder()

	err := readJSON(rec, req, &dst)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown key")
}

func TestReadJSONRejectsEmptyBody(t *testing.T) {
	var dst struct{}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	rec := httptest.NewRecorder()

	err := readJSON(rec, req, &dst)
	require.EqualError(t, err, "body must not be empty")
}

func TestReadJSONRejectsTrailingValue(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}{"name":"y"}`))
	rec := httptest.NewRecorder()

	err := readJSON(rec, req, &dst)
	require.EqualError(t, err, "body must only contain a single JSON value")
}

func TestWriteJSONSetsContentType(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, writeJSON(rec, http.StatusCreated, jsonResponse{"ok": true}, nil))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"ok": true`)
}
