package handlers

import (
	"context"
	"net/http"

	"portfolio/internal/models"
	"portfolio/internal/utils/helpers"

	"github.com/gorilla/mux"
)

type MessageUseCase interface {
	Create(ctx context.Context, req models.CreateMessageRequest) (*models.Message, error)
	List(ctx context.Context) ([]*models.Message, error)
	Get(ctx context.Context, id string) (*models.Message, error)
	MarkRead(ctx context.Context, id string) (*models.Message, error)
	Delete(ctx context.Context, id string) error
}

type MessageHandler struct {
	messages MessageUseCase
}

func NewMessageHandler(messages MessageUseCase) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// Create godoc
// @Summary Отправка сообщения из контактной формы
// @Tags messages
// @Accept json
// @Produce json
// @Param input body models.CreateMessageRequest true "Сообщение"
// @Success 201 {object} helpers.SuccessResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Router /api/messages [post]
func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	msg, err := h.messages.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.Success(w, http.StatusCreated, msg, "Message sent successfully")
}

// List godoc
// @Summary Входящие сообщения (непрочитанные сверху)
// @Tags messages
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} helpers.SuccessResponse
// @Router /api/messages [get]
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.messages.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.Success(w, http.StatusOK, list, "")
}

// Get godoc
// @Summary Сообщение по id (помечается прочитанным)
// @Tags messages
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "id"
// @Success 200 {object} helpers.SuccessResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/messages/{id} [get]
func (h *MessageHandler) Get(w http.ResponseWriter, r *http.Request) {
	msg, err := h.messages.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.Success(w, http.StatusOK, msg, "")
}

// MarkRead godoc
// @Summary Пометить прочитанным
// @Tags messages
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "id"
// @Success 200 {object} helpers.SuccessResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/messages/{id}/mark-read [put]
func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	msg, err := h.messages.MarkRead(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.Success(w, http.StatusOK, msg, "Message marked as read")
}

// Delete godoc
// @Summary Удалить сообщение
// @Tags messages
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "id"
// @Success 200 {object} helpers.SuccessResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/messages/{id} [delete]
func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.messages.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.Success(w, http.StatusOK, nil, "Message deleted")
}
