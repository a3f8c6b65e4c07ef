package api

import (
	"context"
	"net/http"

	respond "github.com/Tooltu-deve/Travel-App-sub003/internal/api/respond"
	"github.com/Tooltu-deve/Travel-App-sub003/internal/api/validate"
)

// ownerHeader is set by the upstream auth gateway after verifying the
// caller's token. This service trusts it and never sees credentials.
const ownerHeader = "X-User-Id"

type ctxKey int

const ownerKey ctxKey = iota

// OwnerMiddleware rejects requests without a verified caller identity and
// stashes the owner id in the request context.
func OwnerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner := r.Header.Get(ownerHeader)
		if err := validate.OwnerID(owner); err != nil {
			respond.WriteUnauthorized(w, "missing or invalid caller identity")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ownerKey, owner)))
	})
}

// ownerFrom returns the authenticated owner id. Handlers behind
// OwnerMiddleware can rely on it being present.
func ownerFrom(r *http.Request) string {
	owner, _ := r.Context().Value(ownerKey).(string)
	return owner
}
