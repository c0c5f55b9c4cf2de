package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"portfolio/internal/config"
	"portfolio/internal/logger"
	"portfolio/internal/models"
	"portfolio/internal/repository"
	"portfolio/internal/utils/helpers"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MessageStore interface {
	Create(ctx context.Context, m *models.Message) error
	List(ctx context.Context) ([]*models.Message, error)
	GetByID(ctx context.Context, id string) (*models.Message, error)
	MarkRead(ctx context.Context, id string) (*models.Message, error)
	Delete(ctx context.Context, id string) error
}

type MessageService struct {
	repo          MessageStore
	notifier      Notifier
	adminEmail    string
	notifyTimeout time.Duration
	now           func() time.Time
}

func NewMessageService(repo MessageStore, notifier Notifier, cfg *config.Config) *MessageService {
	return &MessageService{
		repo:          repo,
		notifier:      notifier,
		adminEmail:    cfg.AdminEmail,
		notifyTimeout: cfg.NotifyTimeout,
		now:           time.Now,
	}
}

var errMessageNotFound = newError(ErrNotFound, "Message not found")

// Create сохраняет заявку и уведомляет админа. Сбой письма запрос не валит.
func (s *MessageService) Create(ctx context.Context, req models.CreateMessageRequest) (*models.Message, error) {
	log := logger.WithCtx(ctx)

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Subject = strings.TrimSpace(req.Subject)
	if err := checkInput(req, "All fields are required"); err != nil {
		return nil, err
	}

	msg := &models.Message{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Subject:   req.Subject,
		Message:   req.Message,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		log.Error("Ошибка сохранения сообщения", zap.Error(err))
		return nil, storeErr("create message", err)
	}

	s.notifyAdmin(ctx, msg)
	log.Info("Новое сообщение из формы", zap.String("message_id", msg.ID))
	return msg, nil
}

func (s *MessageService) notifyAdmin(ctx context.Context, msg *models.Message) {
	log := logger.WithCtx(ctx)
	if s.adminEmail == "" {
		log.Debug("ADMIN_EMAIL не задан, уведомление пропущено")
		return
	}
	m := Mail{
		To:      s.adminEmail,
		Subject: "New Message Received",
		Text:    helpers.NewMessageText(msg.Name, msg.Email, msg.Subject, msg.Message),
		HTML:    helpers.BuildNewMessageHTML(msg.Name, msg.Email, msg.Subject, msg.Message),
	}
	if derr := deliver(ctx, s.notifier, m, s.notifyTimeout); derr != nil {
		log.Error("Не удалось отправить уведомление о сообщении",
			zap.String("message_id", msg.ID),
			zap.Error(derr),
		)
		return
	}
	log.Info("Уведомление о сообщении отправлено", zap.String("message_id", msg.ID))
}

func (s *MessageService) List(ctx context.Context) ([]*models.Message, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeErr("list messages", err)
	}
	return list, nil
}

// Get отдаёт сообщение и помечает его прочитанным.
func (s *MessageService) Get(ctx context.Context, id string) (*models.Message, error) {
	msg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapErr(err, "get message")
	}
	if msg.Read {
		return msg, nil
	}
	read, err := s.repo.MarkRead(ctx, id)
	if err != nil {
		return nil, s.mapErr(err, "mark message read")
	}
	return read, nil
}

func (s *MessageService) MarkRead(ctx context.Context, id string) (*models.Message, error) {
	msg, err := s.repo.MarkRead(ctx, id)
	if err != nil {
		return nil, s.mapErr(err, "mark message read")
	}
	return msg, nil
}

func (s *MessageService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapErr(err, "delete message")
	}
	logger.WithCtx(ctx).Info("Сообщение удалено", zap.String("message_id", id))
	return nil
}

func (s *MessageService) mapErr(err error, op string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return errMessageNotFound
	}
	return storeErr(op, err)
}
