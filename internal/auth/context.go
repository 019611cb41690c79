package auth

import "context"

type contextKey struct{}

func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, contextKey{}, claims)
}

func ClaimsFrom(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(contextKey{}).(*Claims)
	return claims, ok && claims != nil
}

// UserID returns the authenticated user, or zero when the request is anonymous.
func UserID(ctx context.Context) int64 {
	claims, ok := ClaimsFrom(ctx)
	if !ok {
		return 0
	}

	return claims.UserID
}
