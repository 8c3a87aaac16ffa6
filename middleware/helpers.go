package middleware

import (
	"context"
	"errors"
	"fmt"
)

func PrincipalFromContext(ctx context.Context) (Principal, error) {
	principal, ok := ctx.Value(principalContextKey).(Principal)
	if !ok {
		return Principal{}, errors.New("principal not found in context")
	}
	return principal, nil
}

// GetUserIDFromContext returns the caller's user id, failing if the request
// was authenticated as a different account kind.
func GetUserIDFromContext(ctx context.Context) (int, error) {
	return idForRole(ctx, RoleUser)
}

func GetTeamIDFromContext(ctx context.Context) (int, error) {
	return idForRole(ctx, RoleTeam)
}

func GetOfficialIDFromContext(ctx context.Context) (int, error) {
	return idForRole(ctx, RoleOfficial)
}

func GetAdminIDFromContext(ctx context.Context) (int, error) {
	return idForRole(ctx, RoleAdmin)
}

func idForRole(ctx context.Context, role Role) (int, error) {
	principal, err := PrincipalFromContext(ctx)
	if err != nil {
		return 0, err
	}
	if principal.Role != role {
		return 0, fmt.Errorf("authenticated as %s, not %s", principal.Role, role)
	}
	return principal.ID, nil
}
