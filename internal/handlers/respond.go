package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"portfolio/internal/logger"
	"portfolio/internal/services"
	"portfolio/internal/utils/helpers"

	"go.uber.org/zap"
)

const maxJSONBody = 1 << 20

// statusFor: единственное место, где доменные ошибки превращаются в HTTP-статусы.
func statusFor(kind error) int {
	switch {
	case errors.Is(kind, services.ErrMissingField),
		errors.Is(kind, services.ErrWeakPassword),
		errors.Is(kind, services.ErrMismatch),
		errors.Is(kind, services.ErrInvalidOrExpiredToken),
		errors.Is(kind, services.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(kind, services.ErrInvalidCredentials),
		errors.Is(kind, services.ErrInvalidSession):
		return http.StatusUnauthorized
	case errors.Is(kind, services.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		de *services.DeliveryError
		se *services.Error
	)
	switch {
	case errors.As(err, &de):
		helpers.Error(w, http.StatusInternalServerError, de.Cause)
	case errors.As(err, &se):
		status := statusFor(se.Kind)
		if status >= http.StatusInternalServerError {
			logger.WithCtx(r.Context()).Error("Ошибка обработки запроса", zap.Error(err))
		}
		helpers.Error(w, status, se.Msg)
	default:
		logger.WithCtx(r.Context()).Error("Внутренняя ошибка", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Server Error")
	}
}

// decodeJSON: пустое тело допустимо: отсутствующие поля ловит сервис.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		logger.WithCtx(r.Context()).Warn("Некорректный JSON", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
