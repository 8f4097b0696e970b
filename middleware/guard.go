package middleware

import (
	"context"
	"net/http"
	"strings"

	labauth "github.com/labforge/labauth"
	"github.com/labforge/labauth/privilege"
)

type authResultContextKey struct{}

// AuthResultFromContext returns the identity snapshot Guard injected, if any.
func AuthResultFromContext(ctx context.Context) (*labauth.AuthResult, bool) {
	res, ok := ctx.Value(authResultContextKey{}).(*labauth.AuthResult)
	return res, ok
}

// Guard validates the request's bearer token and injects the resulting
// [labauth.AuthResult] into the request context. Missing or invalid tokens
// get 401.
func Guard(engine *labauth.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			res, err := engine.Validate(r.Context(), token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), authResultContextKey{}, res)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Require wraps Guard and additionally enforces a privilege requirement
// against the validated identity. Unsatisfied requirements get 403.
func Require(engine *labauth.Engine, requirement privilege.Requirement) func(http.Handler) http.Handler {
	guard := Guard(engine)
	return func(next http.Handler) http.Handler {
		return guard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, ok := AuthResultFromContext(r.Context())
			if !ok || !requirement.SatisfiedBy(res.Privileges) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}
