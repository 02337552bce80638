package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/kadankyi1/amforex/internal/repository/redis"
	"github.com/kadankyi1/amforex/internal/util"
)

type contextKey string

const principalKey contextKey = "principal"

// FromContext returns the authenticated principal placed by Authenticator.
func FromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey).(*Principal)
	return p, ok
}

// WithPrincipal is exposed for handler tests.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// Authenticator validates the bearer token and rejects revoked tokens. It
// does not touch the database; account state checks belong to the services.
func Authenticator(manager *Manager, tokens *redis.TokenCache, onReject http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				onReject(w, r)
				return
			}

			principal, err := manager.Parse(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				onReject(w, r)
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
			revoked, err := tokens.IsRevoked(ctx, principal.JTI, principal.UserType, principal.ID, principal.IssuedAt)
			cancel()
			if err != nil {
				util.Error("token revocation check failed", util.ErrorField(err))
				onReject(w, r)
				return
			}
			if revoked {
				onReject(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}
