package helpers

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse: единый формат ошибки для клиента.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		return
	}
}

func Error(w http.ResponseWriter, status int, errMsg string) {
	JSON(w, status, ErrorResponse{Success: false, Message: errMsg})
}

// SuccessResponse: единый формат успешного ответа для CRUD-ручек.
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func Success(w http.ResponseWriter, status int, data interface{}, msg string) {
	if msg == "" {
		msg = "Success"
	}
	JSON(w, status, SuccessResponse{Success: true, Message: msg, Data: data})
}
