package middleware

import (
	"net/http"
	"strings"

	"portfolio/internal/logger"
	"portfolio/internal/reqctx"
	"portfolio/internal/utils/helpers"

	"go.uber.org/zap"
)

// Authenticator: проверка bearer-токена, возвращает id пользователя.
type Authenticator interface {
	Authenticate(token string) (string, error)
}

func JWTAuth(auth Authenticator, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			logger.WithCtx(r.Context()).Warn("JWTAuth: отсутствует access token")
			helpers.Error(w, http.StatusUnauthorized, "Not authorized, no token")
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		userID, err := auth.Authenticate(tokenString)
		if err != nil {
			logger.WithCtx(r.Context()).Warn("JWTAuth: неверный или просроченный токен")
			helpers.Error(w, http.StatusUnauthorized, err.Error())
			return
		}

		ctx := reqctx.WithUserID(r.Context(), userID)
		logger.WithCtx(ctx).Debug("JWTAuth: токен валиден", zap.String("path", r.URL.Path))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth: то же для mux.Use.
func RequireAuth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return JWTAuth(auth, next)
	}
}
