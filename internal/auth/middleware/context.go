package auth

import "context"

type claimsKey struct{}

// WithClaims stores verified token claims on ctx.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*Claims)
	return c, ok && c != nil
}

func SubjectFromContext(ctx context.Context) string {
	if c, ok := ClaimsFromContext(ctx); ok {
		return c.Sub
	}
	return ""
}

// SessionIDFromContext returns the scoring session bound to a guest token.
// Admin tokens carry a username, not a session, and yield "".
func SessionIDFromContext(ctx context.Context) string {
	if c, ok := ClaimsFromContext(ctx); ok && c.Role == RoleGuest {
		return c.Sub
	}
	return ""
}
