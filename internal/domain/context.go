package domain

import "context"

type principalKey struct{}

// ContextPrincipal carries the resolved internal identity through request
// context after the auth middleware has run the identity resolver.
type ContextPrincipal struct {
	ID         string
	Name       string
	SystemRole Role
}

// WithPrincipal stores a ContextPrincipal in the context.
func WithPrincipal(ctx context.Context, p ContextPrincipal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext extracts the ContextPrincipal from the context.
func PrincipalFromContext(ctx context.Context) (ContextPrincipal, bool) {
	p, ok := ctx.Value(principalKey{}).(ContextPrincipal)
	return p, ok
}

type scopeKey struct{}

// WithScope stores the resolved ScopeContext in the context. Set once by the
// scope middleware so handlers never re-derive it.
func WithScope(ctx context.Context, s ScopeContext) context.Context {
	return context.WithValue(ctx, scopeKey{}, s)
}

// ScopeFromContext extracts the resolved ScopeContext from the context.
func ScopeFromContext(ctx context.Context) (ScopeContext, bool) {
	s, ok := ctx.Value(scopeKey{}).(ScopeContext)
	return s, ok
}
