// Package session turns bearer tokens into request sessions and guards routes
// by role.
package session

import (
	"net/http"
	"strings"

	"github.com/MrJamesThe3rd/chaibook/internal/account"
	"github.com/MrJamesThe3rd/chaibook/internal/auth"
	"github.com/MrJamesThe3rd/chaibook/internal/http/respond"
)

// WarningHeader carries the subscription expiry warning on vendor responses.
const WarningHeader = "X-Subscription-Warning"

type Middleware struct {
	tokens   *auth.Tokens
	resolver *auth.Resolver
}

func NewMiddleware(tokens *auth.Tokens, resolver *auth.Resolver) *Middleware {
	return &Middleware{tokens: tokens, resolver: resolver}
}

// Authenticate requires a valid bearer token and stores its session in the
// request context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearer(r)
		if !ok {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}

		s, err := m.tokens.Parse(token)
		if err != nil {
			respond.Error(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), s)))
	})
}

// Require admits only sessions of the given role. Vendor sessions go through
// the subscription gate on every request, so an expiry takes effect without
// waiting for the token to lapse.
func (m *Middleware) Require(role account.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := auth.FromContext(r.Context())
			if !ok {
				http.Error(w, "not logged in", http.StatusUnauthorized)
				return
			}

			if s.Role() != role {
				http.Error(w, "forbidden for role "+string(s.Role()), http.StatusForbidden)
				return
			}

			if role == account.RoleVendor {
				verdict, err := m.resolver.Admit(r.Context(), s)
				if err != nil {
					respond.Error(w, err)
					return
				}

				if msg := verdict.Warning(); msg != "" {
					w.Header().Set(WarningHeader, msg)
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearer(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")

	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", false
	}

	return strings.TrimSpace(token), true
}

// From returns the request session. Routes behind Authenticate always have one.
func From(r *http.Request) auth.Session {
	s, _ := auth.FromContext(r.Context())
	return s
}
