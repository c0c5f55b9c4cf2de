package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"portfolio/internal/logger"
	"portfolio/internal/repository"
	"portfolio/internal/utils"
	"portfolio/internal/utils/helpers"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 6

// ForgotPassword выставляет пару (hash, expiry) и отправляет письмо с сырым токеном.
// Если письмо не ушло, пара откатывается, если её ещё не перезаписал
// более новый запрос.
//
// Повторный вызов перезаписывает пару: рабочей остаётся только последняя ссылка.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	log := logger.WithCtx(ctx)
	email = strings.TrimSpace(email)
	if email == "" {
		return newError(ErrMissingField, "Please provide an email address")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Warn("Сброс пароля: email не найден")
			return newError(ErrNotFound, "No user found with this email address")
		}
		log.Error("Сброс пароля: ошибка чтения пользователя", zap.Error(err))
		return storeErr("find user by email", err)
	}

	secret, err := utils.GenerateSecret()
	if err != nil {
		log.Error("Ошибка генерации токена для сброса", zap.Error(err), zap.String("user_id", user.ID))
		return err
	}

	expires := s.now().Add(s.resetTTL)
	tokenHash := utils.HashSecret(secret)
	user.SetReset(tokenHash, expires)
	if err := s.repo.Save(ctx, user); err != nil {
		log.Error("Ошибка сохранения токена сброса пароля", zap.String("user_id", user.ID), zap.Error(err))
		return storeErr("save reset token", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", s.frontendURL, secret)
	m := Mail{
		To:        user.Email,
		Subject:   "Password Reset Request",
		Text:      helpers.PasswordResetText(resetURL, s.resetTTL),
		HTML:      helpers.BuildPasswordResetHTML(resetURL, s.resetTTL),
		ActionURL: resetURL,
	}

	if derr := deliver(ctx, s.notifier, m, s.notifyTimeout); derr != nil {
		log.Error("Письмо для сброса не отправлено, откатываем токен",
			zap.String("user_id", user.ID),
			zap.Error(derr),
		)
		// Откатываем только свою пару: более новый запрос мог уже выставить свою.
		if err := s.repo.ClearResetIfHash(context.WithoutCancel(ctx), user.ID, tokenHash); err != nil {
			log.Error("Не удалось откатить токен сброса", zap.String("user_id", user.ID), zap.Error(err))
		}
		return derr
	}

	log.Info("Письмо со ссылкой на сброс пароля отправлено",
		zap.String("user_id", user.ID),
		zap.Time("expires_at", expires),
	)
	return nil
}

// ResetPassword меняет пароль по токену из письма и сразу выдаёт новую сессию.
// confirmPassword проверяется, только если передан.
func (s *AuthService) ResetPassword(ctx context.Context, rawToken, password, confirmPassword string) (*AuthResult, error) {
	log := logger.WithCtx(ctx)

	if password == "" {
		return nil, newError(ErrMissingField, "Please provide a password")
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return nil, newError(ErrWeakPassword, fmt.Sprintf("Password must be at least %d characters long", minPasswordLen))
	}
	if confirmPassword != "" && confirmPassword != password {
		return nil, newError(ErrMismatch, "Passwords do not match")
	}

	invalid := newError(ErrInvalidOrExpiredToken, "Invalid token or token has expired. Please request a new password reset.")
	if strings.TrimSpace(rawToken) == "" {
		return nil, invalid
	}

	// Один запрос: совпадение хеша И срок в будущем.
	user, err := s.repo.FindByValidResetHash(ctx, utils.HashSecret(rawToken), s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Warn("Неверный или просроченный токен при сбросе пароля")
			return nil, invalid
		}
		log.Error("Ошибка поиска по токену сброса", zap.Error(err))
		return nil, storeErr("find user by reset hash", err)
	}

	pwHash, err := utils.HashPassword(password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, newError(ErrWeakPassword, "Password must be at most 72 bytes long")
		}
		log.Error("Ошибка генерации хеша пароля", zap.Error(err), zap.String("user_id", user.ID))
		return nil, err
	}

	user.PasswordHash = pwHash
	user.ClearReset()
	if err := s.repo.Save(ctx, user); err != nil {
		log.Error("Ошибка обновления пароля пользователя", zap.String("user_id", user.ID), zap.Error(err))
		return nil, storeErr("save password", err)
	}

	token, err := s.sessions.Issue(user.ID)
	if err != nil {
		log.Error("Ошибка генерации токена сессии", zap.Error(err))
		return nil, err
	}

	log.Info("Пароль успешно сброшен", zap.String("user_id", user.ID))
	return &AuthResult{Token: token, User: user.Public()}, nil
}
