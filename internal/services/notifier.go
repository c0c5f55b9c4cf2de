// internal/services/notifier.go
package services

import (
	"context"
	"errors"
	"time"
)

// Mail: одно исходящее письмо.
type Mail struct {
	To        string
	Subject   string
	Text      string
	HTML      string
	ActionURL string
}

// Notifier доставляет письма. При сбое возвращает *DeliveryError.
type Notifier interface {
	Send(ctx context.Context, m Mail) error
}

// deliver ограничивает отправку таймаутом, даже если транспорт не уважает ctx.
// Письмо, ушедшее после таймаута, безопасно: токен в нём уже откатан.
func deliver(ctx context.Context, n Notifier, m Mail, timeout time.Duration) *DeliveryError {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() { done <- n.Send(ctx, m) }()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}
	if err == nil {
		return nil
	}

	var de *DeliveryError
	if errors.As(err, &de) {
		return de
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &DeliveryError{Cause: "Email delivery timed out. Please try again later.", Err: err}
	}
	return &DeliveryError{Cause: "Email could not be sent. Please try again later.", Err: err}
}
