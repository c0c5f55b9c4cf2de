package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"portfolio/internal/config"
	"portfolio/internal/logger"
	"portfolio/internal/models"
	"portfolio/internal/repository"
	"portfolio/internal/utils"

	"go.uber.org/zap"
)

// UserRepo: хранилище учётных данных. Одна операция трогает одну запись.
type UserRepo interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByValidResetHash(ctx context.Context, tokenHash string, now time.Time) (*models.User, error)
	Save(ctx context.Context, user *models.User) error
	// ClearResetIfHash снимает пару, только если она всё ещё с этим хешем.
	ClearResetIfHash(ctx context.Context, id, tokenHash string) error
}

// Sessions: выпуск и проверка bearer-токенов.
type Sessions interface {
	Issue(userID string) (string, error)
	Validate(token string) (string, error)
}

// AuthResult: ответ на успешный вход или сброс.
type AuthResult struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

type AuthService struct {
	repo          UserRepo
	notifier      Notifier
	sessions      Sessions
	frontendURL   string
	resetTTL      time.Duration
	notifyTimeout time.Duration
	now           func() time.Time
}

func NewAuthService(repo UserRepo, notifier Notifier, sessions Sessions, cfg *config.Config) *AuthService {
	return &AuthService{
		repo:          repo,
		notifier:      notifier,
		sessions:      sessions,
		frontendURL:   strings.TrimRight(cfg.FrontendURL, "/"),
		resetTTL:      cfg.PasswordResetTTL,
		notifyTimeout: cfg.NotifyTimeout,
		now:           time.Now,
	}
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// burnPasswordCheck выравнивает время ответа для несуществующего email.
func burnPasswordCheck(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = utils.HashPassword("portfolio-dummy-password")
	})
	if dummyHash != "" {
		_ = utils.CheckPasswordHash(password, dummyHash)
	}
}

// Login проверяет email+пароль. Нет пользователя и неверный пароль дают
// одну и ту же ошибку, чтобы нельзя было перебирать email.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	log := logger.WithCtx(ctx)
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, newError(ErrMissingField, "Please provide email and password")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			burnPasswordCheck(password)
			log.Warn("Вход: пользователь не найден")
			return nil, newError(ErrInvalidCredentials, "Invalid credentials")
		}
		log.Error("Вход: ошибка чтения пользователя", zap.Error(err))
		return nil, storeErr("find user by email", err)
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		log.Warn("Вход: неверный пароль", zap.String("user_id", user.ID))
		return nil, newError(ErrInvalidCredentials, "Invalid credentials")
	}

	token, err := s.sessions.Issue(user.ID)
	if err != nil {
		log.Error("Ошибка генерации токена сессии", zap.Error(err))
		return nil, err
	}

	log.Info("Вход выполнен", zap.String("user_id", user.ID))
	return &AuthResult{Token: token, User: user.Public()}, nil
}

// CurrentUser: публичный профиль по id из уже проверенной сессии.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*models.PublicUser, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.WithCtx(ctx).Warn("Пользователь из сессии не найден", zap.String("user_id", userID))
			return nil, newError(ErrNotFound, "User not found")
		}
		return nil, storeErr("find user by id", err)
	}
	pub := user.Public()
	return &pub, nil
}

// Authenticate: проверка bearer-токена для middleware.
func (s *AuthService) Authenticate(token string) (string, error) {
	id, err := s.sessions.Validate(token)
	if err != nil {
		return "", newError(ErrInvalidSession, "Not authorized, token failed")
	}
	return id, nil
}
