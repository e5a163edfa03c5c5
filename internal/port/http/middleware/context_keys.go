package middleware

import (
	"context"

	"github.com/amJayem/used-books-resale-server/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

const claimsCtxKey = ContextKey("auth_claims")

// ClaimsFromContext extracts the verified credential claims stored by the
// JWTAuth middleware.
func ClaimsFromContext(ctx context.Context) (*service.Claims, bool) {
	claims, ok := ctx.Value(claimsCtxKey).(*service.Claims)
	return claims, ok
}

// ContextWithClaims binds verified claims to the context. The JWTAuth
// middleware is the production caller; handler tests use it directly.
func ContextWithClaims(ctx context.Context, claims *service.Claims) context.Context {
	return context.WithValue(ctx, claimsCtxKey, claims)
}
