// Package requestctx carries the authenticated admin through request contexts.
package requestctx

import "context"

// Principal identifies the admin attached to a request.
type Principal struct {
	ID    string
	Email string
	Name  string
}

type principalContextKey struct{}

// WithPrincipal stores the authenticated admin in context.
func WithPrincipal(ctx context.Context, principal Principal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, principalContextKey{}, principal)
}

// PrincipalFromContext returns the admin stored in context, if any.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	value, ok := ctx.Value(principalContextKey{}).(Principal)
	if !ok || value.ID == "" {
		return Principal{}, false
	}
	return value, true
}

// UserIDFromContext returns the admin identifier stored in context.
func UserIDFromContext(ctx context.Context) string {
	principal, _ := PrincipalFromContext(ctx)
	return principal.ID
}
