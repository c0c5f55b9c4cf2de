package handlers

import (
	"context"
	"errors"
	"net/http"

	"portfolio/internal/metrics"
	"portfolio/internal/models"
	"portfolio/internal/reqctx"
	"portfolio/internal/services"
	"portfolio/internal/utils/helpers"

	"github.com/gorilla/mux"
)

type AuthUseCase interface {
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	CurrentUser(ctx context.Context, userID string) (*models.PublicUser, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, rawToken, password, confirmPassword string) (*services.AuthResult, error)
}

type AuthHandler struct {
	auth    AuthUseCase
	metrics metrics.AuthRecorder
}

func NewAuthHandler(auth AuthUseCase, rec metrics.AuthRecorder) *AuthHandler {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &AuthHandler{auth: auth, metrics: rec}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type authResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Token   string            `json:"token"`
	User    models.PublicUser `json:"user"`
}

type userResponse struct {
	Success bool              `json:"success"`
	User    models.PublicUser `json:"user"`
}

// outcome: метка для счётчика событий авторизации.
func outcome(err error) string {
	var de *services.DeliveryError
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &de):
		return "delivery_failed"
	case errors.Is(err, services.ErrMissingField):
		return "missing_field"
	case errors.Is(err, services.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, services.ErrNotFound):
		return "not_found"
	case errors.Is(err, services.ErrWeakPassword), errors.Is(err, services.ErrMismatch):
		return "bad_password"
	case errors.Is(err, services.ErrInvalidOrExpiredToken):
		return "invalid_token"
	default:
		return "error"
	}
}

// Login godoc
// @Summary Вход администратора
// @Tags auth
// @Accept json
// @Produce json
// @Param input body loginRequest true "email и пароль"
// @Success 200 {object} authResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.auth.Login(r.Context(), req.Email, req.Password)
	h.metrics.RecordAuthEvent("login", outcome(err))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, authResponse{Success: true, Token: res.Token, User: res.User})
}

// Me godoc
// @Summary Текущий пользователь
// @Tags auth
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} userResponse
// @Failure 401 {object} helpers.ErrorResponse
// @Router /api/auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := reqctx.GetUserID(r.Context())
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "Not authorized, token failed")
		return
	}
	user, err := h.auth.CurrentUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, userResponse{Success: true, User: *user})
}

// ForgotPassword godoc
// @Summary Запрос ссылки для сброса пароля
// @Tags auth
// @Accept json
// @Produce json
// @Param input body forgotPasswordRequest true "email"
// @Success 200 {object} helpers.ErrorResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /api/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.auth.ForgotPassword(r.Context(), req.Email)
	h.metrics.RecordAuthEvent("forgot_password", outcome(err))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, helpers.ErrorResponse{
		Success: true,
		Message: "Password reset email sent successfully. Please check your email.",
	})
}

// ResetPassword godoc
// @Summary Установка нового пароля по ссылке из письма
// @Tags auth
// @Accept json
// @Produce json
// @Param token path string true "токен из ссылки"
// @Param input body resetPasswordRequest true "новый пароль"
// @Success 200 {object} authResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Router /api/auth/reset-password/{token} [put]
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token := mux.Vars(r)["token"]
	res, err := h.auth.ResetPassword(r.Context(), token, req.Password, req.ConfirmPassword)
	h.metrics.RecordAuthEvent("reset_password", outcome(err))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, authResponse{
		Success: true,
		Message: "Password reset successful",
		Token:   res.Token,
		User:    res.User,
	})
}
