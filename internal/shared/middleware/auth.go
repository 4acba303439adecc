package middleware

import (
	"context"
	"net/http"
	"strings"

	"ride-entitlement/internal/shared/jwt"
	"ride-entitlement/internal/shared/models"
)

const SubjectKey contextKey = "subject"
const RoleKey contextKey = "role"

type Auth struct {
	tokens *jwt.Manager
}

func NewAuth(tokens *jwt.Manager) *Auth {
	return &Auth{tokens: tokens}
}

// Require verifies the bearer token and checks the role against the allowed
// set. When the route carries a {driver_id} path value and the caller is a
// driver, the id must match the token subject.
func (a *Auth) Require(next http.HandlerFunc, roles ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := a.authenticate(w, r)
		if !ok {
			return
		}

		allowed := false
		for _, role := range roles {
			if claims.Role == role {
				allowed = true
				break
			}
		}
		if !allowed {
			http.Error(w, "forbidden - insufficient role", http.StatusForbidden)
			return
		}

		if claims.Role == models.RoleDriver {
			if driverID := r.PathValue("driver_id"); driverID != "" && driverID != claims.Subject {
				http.Error(w, "forbidden - driver_id mismatch", http.StatusForbidden)
				return
			}
		}

		ctx := context.WithValue(r.Context(), SubjectKey, claims.Subject)
		ctx = context.WithValue(ctx, RoleKey, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

func (a *Auth) authenticate(w http.ResponseWriter, r *http.Request) (*models.Claims, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		http.Error(w, "missing auth header", http.StatusUnauthorized)
		return nil, false
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	claims, err := a.tokens.Parse(tokenString)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return nil, false
	}

	return claims, true
}

// Subject returns the authenticated caller id from the request context.
func Subject(ctx context.Context) string {
	if id, ok := ctx.Value(SubjectKey).(string); ok {
		return id
	}
	return ""
}

// Role returns the authenticated caller role from the request context.
func Role(ctx context.Context) string {
	if role, ok := ctx.Value(RoleKey).(string); ok {
		return role
	}
	return ""
}
