package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func captureHandler(t *testing.T, role Role, gotID *int) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := PrincipalFromContext(r.Context())
		require.NoError(t, err)
		assert.Equal(t, role, principal.Role)
		*gotID = principal.ID
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticatorTokenRoundTrip(t *testing.T) {
	auth := NewAuthenticator(testSecret)

	cases := []struct {
		role    Role
		header  string
		wrap    func(http.Handler) http.Handler
		fromCtx func(r *http.Request) (int, error)
	}{
		{RoleUser, "auth-token", auth.RequireUser, func(r *http.Request) (int, error) { return GetUserIDFromContext(r.Context()) }},
		{RoleTeam, "team-token", auth.RequireTeam, func(r *http.Request) (int, error) { return GetTeamIDFromContext(r.Context()) }},
		{RoleOfficial, "matchofficial-token", auth.RequireOfficial, func(r *http.Request) (int, error) { return GetOfficialIDFromContext(r.Context()) }},
		{RoleAdmin, "admin-token", auth.RequireAdmin, func(r *http.Request) (int, error) { return GetAdminIDFromContext(r.Context()) }},
	}

	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			token, err := SignToken(testSecret, tc.role, 42)
			require.NoError(t, err)

			var gotID int
			handler := tc.wrap(captureHandler(t, tc.role, &gotID))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(tc.header, token)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, 42, gotID)
		})
	}
}

func TestAuthenticatorRejectsMissingToken(t *testing.T) {
	auth := NewAuthenticator(testSecret)
	handler := auth.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticatorRejectsTokenOfOtherRole(t *testing.T) {
	auth := NewAuthenticator(testSecret)

	// a team token presented in the user header carries no user_id claim
	token, err := SignToken(testSecret, RoleTeam, 42)
	require.NoError(t, err)

	handler := auth.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("auth-token", token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticatorRejectsForgedToken(t *testing.T) {
	auth := NewAuthenticator(testSecret)

	token, err := SignToken("other-secret", RoleUser, 42)
	require.NoError(t, err)

	handler := auth.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("auth-token", token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAnyAcceptsFirstPresentRole(t *testing.T) {
	auth := NewAuthenticator(testSecret)

	token, err := SignToken(testSecret, RoleTeam, 7)
	require.NoError(t, err)

	var gotID int
	handler := auth.RequireAny(RoleUser, RoleTeam)(captureHandler(t, RoleTeam, &gotID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("team-token", token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 7, gotID)
}

func TestIDForRoleRejectsWrongAccountKind(t *testing.T) {
	auth := NewAuthenticator(testSecret)

	token, err := SignToken(testSecret, RoleTeam, 7)
	require.NoError(t, err)

	handler := auth.RequireTeam(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := GetUserIDFromContext(r.Context())
		assert.Error(t, err)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("team-token", token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
