package rest

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"catalog-service/internal/contextkeys"
	"catalog-service/internal/core/port"

	"github.com/golang-jwt/jwt/v5"
)

type authCtxKey string

const adminCtxKey authCtxKey = "is_admin"

// IsAdminFromContext сообщает, аутентифицирован ли запрос как админский.
func IsAdminFromContext(ctx context.Context) bool {
	isAdmin, _ := ctx.Value(adminCtxKey).(bool)
	return isAdmin
}

type accessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func parseBearerToken(r *http.Request, secret string) (*accessClaims, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, fmt.Errorf("authorization header is missing")
	}
	tokenStr, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return nil, fmt.Errorf("authorization header is not a bearer token")
	}

	claims := &accessClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is not valid")
	}
	return claims, nil
}

// AuthMiddleware разбирает Bearer-токен, когда он есть, и помечает
// админские запросы в контексте. Отсутствие токена - не ошибка:
// публичные пути работают анонимно.
func AuthMiddleware(secret string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := parseBearerToken(r, secret)
			if err != nil {
				logger := contextkeys.LoggerFromContext(r.Context())
				logger.Warn("Failed to parse access token", port.Fields{"error": err.Error()})
				WriteJSONError(w, http.StatusUnauthorized, "Invalid access token")
				return
			}

			ctx := context.WithValue(r.Context(), adminCtxKey, claims.Role == "admin")
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin закрывает административные пути.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsAdminFromContext(r.Context()) {
			WriteJSONError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
