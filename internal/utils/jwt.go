package utils

import (
	"errors"
	"time"

	"portfolio/internal/config"
	"portfolio/internal/logger"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// ErrInvalidSession: битый, чужой или просроченный токен. Клиенту причина не раскрывается.
var ErrInvalidSession = errors.New("invalid session")

// SessionClaims: то, что подписываем: {id} + стандартные поля.
type SessionClaims struct {
	ID string `json:"id"`
	jwt.RegisteredClaims
}

// SessionIssuer выпускает и проверяет bearer-токены (HS256).
// Сервер не хранит выданные токены: отозвать один нельзя, только сменить секрет.
type SessionIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionIssuer(cfg *config.Config) *SessionIssuer {
	return &SessionIssuer{
		secret: []byte(cfg.JWTSecret),
		ttl:    cfg.JWTExpiresIn,
		now:    time.Now,
	}
}

// Issue подписывает {id: userID} со сроком жизни из конфига.
func (s *SessionIssuer) Issue(userID string) (string, error) {
	now := s.now()
	claims := SessionClaims{
		ID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate проверяет подпись и срок, возвращает id пользователя.
// Любая ошибка сводится к ErrInvalidSession, конкретная причина уходит только в лог.
func (s *SessionIssuer) Validate(tokenString string) (string, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		logger.Log.Debug("Сессия отклонена", zap.String("reason", sessionFailureReason(err)))
		return "", ErrInvalidSession
	}
	if claims.ID == "" {
		logger.Log.Debug("Сессия отклонена", zap.String("reason", "empty id"))
		return "", ErrInvalidSession
	}
	return claims.ID, nil
}

func sessionFailureReason(err error) string {
	switch {
	case err == nil:
		return "invalid"
	case errors.Is(err, jwt.ErrTokenExpired):
		return "expired"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "bad signature"
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "malformed"
	default:
		return err.Error()
	}
}
