package http

import (
	"context"
	"net/http"
	"slices"
	"strconv"

	"toolrental-backend/internal/domain"

	"github.com/gorilla/mux"
)

// Caller is the authenticated user behind a request.
type Caller struct {
	UserID int32
	Roles  []string
}

func (c Caller) IsAdmin() bool {
	return slices.Contains(c.Roles, string(domain.UserRoleAdmin))
}

type callerKey struct{}

func withCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

// CallerFromContext returns the caller the auth middleware stored, if any.
func CallerFromContext(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(callerKey{}).(Caller)
	return c, ok
}

func requireCaller(ctx context.Context) (Caller, error) {
	c, ok := CallerFromContext(ctx)
	if !ok {
		return Caller{}, domain.NewError(domain.KindUnauthorized, "authentication required")
	}
	return c, nil
}

// pathID reads an int32 path variable.
func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, domain.NewError(domain.KindInvalidInput, "invalid %s %q", name, raw)
	}
	return int32(id), nil
}
