package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

type Role string

const (
	RoleUser     Role = "user"
	RoleTeam     Role = "team"
	RoleOfficial Role = "matchofficial"
	RoleAdmin    Role = "admin"
)

// Header and ID-claim per role. Four structurally identical token flavors,
// one per account kind, all signed with the shared secret.
var roleHeaders = map[Role]string{
	RoleUser:     "auth-token",
	RoleTeam:     "team-token",
	RoleOfficial: "matchofficial-token",
	RoleAdmin:    "admin-token",
}

var roleClaims = map[Role]string{
	RoleUser:     "user_id",
	RoleTeam:     "team_id",
	RoleOfficial: "official_id",
	RoleAdmin:    "admin_id",
}

// Principal is the authenticated caller attached to the request context.
type Principal struct {
	Role Role
	ID   int
}

type contextKey string

const principalContextKey contextKey = "principal"

type Authenticator struct {
	secret []byte
}

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

func (a *Authenticator) RequireUser(next http.Handler) http.Handler     { return a.require(next, RoleUser) }
func (a *Authenticator) RequireTeam(next http.Handler) http.Handler     { return a.require(next, RoleTeam) }
func (a *Authenticator) RequireOfficial(next http.Handler) http.Handler { return a.require(next, RoleOfficial) }
func (a *Authenticator) RequireAdmin(next http.Handler) http.Handler    { return a.require(next, RoleAdmin) }

func (a *Authenticator) require(next http.Handler, role Role) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(roleHeaders[role])
		if token == "" {
			writeAuthError(w, "no token, authorization denied")
			return
		}

		principal, err := a.verify(token, role)
		if err != nil {
			writeAuthError(w, fmt.Sprintf("token is not valid for %s", role))
			return
		}

		ctx := context.WithValue(r.Context(), principalContextKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAny accepts the first role whose header is present, in the given
// order. Used for read endpoints shared between account kinds.
func (a *Authenticator) RequireAny(roles ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, role := range roles {
				token := r.Header.Get(roleHeaders[role])
				if token == "" {
					continue
				}
				principal, err := a.verify(token, role)
				if err != nil {
					writeAuthError(w, fmt.Sprintf("token is not valid for %s", role))
					return
				}
				ctx := context.WithValue(r.Context(), principalContextKey, principal)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
			writeAuthError(w, "no token, authorization denied")
		})
	}
}

func (a *Authenticator) verify(tokenString string, role Role) (Principal, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return Principal{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Principal{}, fmt.Errorf("invalid token claims")
	}

	idClaim, ok := claims[roleClaims[role]]
	if !ok {
		return Principal{}, fmt.Errorf("missing %q claim in token", roleClaims[role])
	}
	idFloat, ok := idClaim.(float64)
	if !ok || idFloat != float64(int(idFloat)) || int(idFloat) <= 0 {
		return Principal{}, fmt.Errorf("invalid %q claim in token", roleClaims[role])
	}

	return Principal{Role: role, ID: int(idFloat)}, nil
}

// SignToken issues a 24h token for the given role carrying the entity's id.
func SignToken(secret string, role Role, id int) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		roleClaims[role]: id,
		"iat":            now.Unix(),
		"exp":            now.Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
