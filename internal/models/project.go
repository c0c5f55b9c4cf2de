package models

import (
	"io"
	"time"
)

type Image struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}

func (i *Image) IsEmpty() bool {
	return i == nil || i.PublicID == ""
}

// Project: карточка в портфолио.
type Project struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Link        string    `json:"link"`
	Tags        []string  `json:"tags"`
	Featured    bool      `json:"featured"`
	Image       *Image    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProjectInput: поля формы создания/редактирования.
// Tags == nil означает «не передавали» (при обновлении теги сохраняются).
type ProjectInput struct {
	Title       string   `validate:"required"`
	Description string   `validate:"required"`
	Link        string   `validate:"required"`
	Tags        []string `validate:"-"`
	Featured    bool
}

// Upload: файл картинки из multipart-формы.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}
