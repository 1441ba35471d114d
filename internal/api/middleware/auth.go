package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/dom/riot-collector/internal/service"
	"go.uber.org/zap"
)

type contextKey string

const (
	SubjectKey contextKey = "subject"
)

// AdminAuth rejects requests without a valid admin bearer token.
func AdminAuth(authService *service.AuthService, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "Invalid authorization header", http.StatusUnauthorized)
				return
			}

			claims, err := authService.ValidateAdminToken(parts[1])
			if err != nil {
				logger.Warn("admin token rejected", zap.String("path", r.URL.Path), zap.Error(err))
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), SubjectKey, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetSubject(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(SubjectKey).(string)
	return subject, ok
}
