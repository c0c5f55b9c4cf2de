package services

import (
	"errors"
	"fmt"

	"portfolio/internal/utils"
)

// Ошибки доменного слоя. Хендлеры мапят их в HTTP-статусы.
var (
	ErrMissingField          = errors.New("missing field")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrNotFound              = errors.New("not found")
	ErrWeakPassword          = errors.New("weak password")
	ErrMismatch              = errors.New("passwords do not match")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrInvalidSession        = utils.ErrInvalidSession
	ErrStore                 = errors.New("store error")
	ErrInvalidInput          = errors.New("invalid input")
	ErrUpload                = errors.New("upload failed")
)

// DeliveryError: письмо не ушло. Cause содержит человекочитаемую причину.
type DeliveryError struct {
	Cause string
	Err   error
}

func (e *DeliveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("delivery failed: %s: %v", e.Cause, e.Err)
	}
	return "delivery failed: " + e.Cause
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// storeErr заворачивает ошибку драйвера, сохраняя её в цепочке.
func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStore, op, err)
}

// Error: доменная ошибка с сообщением для клиента.
// errors.Is(err, ErrMissingField) и т.п. работает через Unwrap.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}
