package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"demoride/pkg/logger"
)

const StaffIDKey contextKey = "staff_id"

// StaffAuth verifies the bearer token issued by the identity provider and
// places the staff subject in the context. The core never sees credentials,
// only the signed token.
func StaffAuth(secret string, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := extractBearerToken(r)
			if tokenString == "" {
				rejectUnauthorized(w, log, r, "Missing bearer token")
				return
			}

			claims := jwt.RegisteredClaims{}
			token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid || claims.Subject == "" {
				rejectUnauthorized(w, log, r, "Invalid bearer token")
				return
			}

			ctx := context.WithValue(r.Context(), StaffIDKey, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// StaffID returns the authenticated staff subject, empty when the request
// did not pass through StaffAuth.
func StaffID(ctx context.Context) string {
	if sid := ctx.Value(StaffIDKey); sid != nil {
		if id, ok := sid.(string); ok {
			return id
		}
	}
	return ""
}

func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return ""
	}
	return token
}

func rejectUnauthorized(w http.ResponseWriter, log *logger.Logger, r *http.Request, reason string) {
	log.Warn("Staff authentication failed",
		"request_id", RequestID(r.Context()),
		"reason", reason,
		"path", r.URL.Path,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
}
