package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"portfolio/internal/logger"
	"portfolio/internal/models"
	"portfolio/internal/services"
	"portfolio/internal/utils/helpers"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Запас сверх картинки на текстовые поля формы.
const (
	formOverhead  = 1 << 20
	formMemoryMax = 32 << 20
)

type ProjectUseCase interface {
	List(ctx context.Context) ([]*models.Project, error)
	Get(ctx context.Context, id string) (*models.Project, error)
	Create(ctx context.Context, in models.ProjectInput, up *models.Upload) (*models.Project, error)
	Update(ctx context.Context, id string, in models.ProjectInput, up *models.Upload) (*models.Project, error)
	Delete(ctx context.Context, id string) error
}

type ProjectHandler struct {
	projects ProjectUseCase
}

func NewProjectHandler(projects ProjectUseCase) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

type projectListResponse struct {
	Success bool              `json:"success"`
	Count   int               `json:"count"`
	Data    []*models.Project `json:"data"`
}

// projectForm разбирает multipart (или urlencoded) форму проекта.
// Если tags не передали, Tags остаётся nil. Вызывающий обязан вызвать cleanup.
func projectForm(w http.ResponseWriter, r *http.Request) (models.ProjectInput, *models.Upload, func(), error) {
	var in models.ProjectInput
	cleanup := func() {}

	r.Body = http.MaxBytesReader(w, r.Body, services.MaxImageSize+formOverhead)
	err := r.ParseMultipartForm(formMemoryMax)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return in, nil, cleanup, &services.Error{Kind: services.ErrInvalidInput, Msg: "Image must be at most 10MB"}
		}
		return in, nil, cleanup, &services.Error{Kind: services.ErrInvalidInput, Msg: "Invalid form data"}
	}
	if r.MultipartForm != nil {
		form := r.MultipartForm
		cleanup = func() { _ = form.RemoveAll() }
	}

	in.Title = r.PostFormValue("title")
	in.Description = r.PostFormValue("description")
	in.Link = r.PostFormValue("link")
	in.Featured = r.PostFormValue("featured") == "true"
	if vals, ok := r.PostForm["tags"]; ok {
		in.Tags = services.ParseTags(strings.Join(vals, ","))
	}

	if r.MultipartForm == nil {
		return in, nil, cleanup, nil
	}
	file, hdr, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return in, nil, cleanup, nil
	}
	if err != nil {
		return in, nil, cleanup, &services.Error{Kind: services.ErrInvalidInput, Msg: "Invalid image"}
	}
	prev := cleanup
	cleanup = func() {
		_ = file.Close()
		prev()
	}
	return in, &models.Upload{
		Filename:    hdr.Filename,
		ContentType: hdr.Header.Get("Content-Type"),
		Size:        hdr.Size,
		Body:        file,
	}, cleanup, nil
}

// List godoc
// @Summary Все проекты (новые сверху)
// @Tags projects
// @Produce json
// @Success 200 {object} projectListResponse
// @Router /api/projects [get]
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.projects.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, projectListResponse{Success: true, Count: len(list), Data: list})
}

// Get godoc
// @Summary Проект по id
// @Tags projects
// @Produce json
// @Param id path string true "id"
// @Success 200 {object} helpers.SuccessResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/projects/{id} [get]
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.projects.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.Success(w, http.StatusOK, p, "")
}

// Create godoc
// @Summary Создать проект
// @Tags projects
// @Security ApiKeyAuth
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Название"
// @Param description formData string true "Описание"
// @Param link formData string true "Ссылка"
// @Param tags formData string false "Теги через запятую"
// @Param featured formData string false "true|false"
// @Param image formData file false "Картинка (jpeg, jpg, png, gif, webp; до 10MB)"
// @Success 201 {object} helpers.SuccessResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Failure 500 {object} helpers.ErrorResponse
// @Router /api/projects [post]
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, up, cleanup, err := projectForm(w, r)
	defer cleanup()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	p, err := h.projects.Create(r.Context(), in, up)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.Success(w, http.StatusCreated, p, "")
}

// Update godoc
// @Summary Обновить проект
// @Tags projects
// @Security ApiKeyAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "id"
// @Param title formData string true "Название"
// @Param description formData string true "Описание"
// @Param link formData string true "Ссылка"
// @Param tags formData string false "Теги через запятую (не передали, остаются прежние)"
// @Param featured formData string false "true|false"
// @Param image formData file false "Новая картинка"
// @Success 200 {object} helpers.SuccessResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/projects/{id} [put]
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	in, up, cleanup, err := projectForm(w, r)
	defer cleanup()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	p, err := h.projects.Update(r.Context(), mux.Vars(r)["id"], in, up)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	helpers.Success(w, http.StatusOK, p, "")
}

// Delete godoc
// @Summary Удалить проект
// @Tags projects
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "id"
// @Success 200 {object} helpers.SuccessResponse
// @Failure 404 {object} helpers.ErrorResponse
// @Router /api/projects/{id} [delete]
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.projects.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	logger.WithCtx(r.Context()).Debug("Удаление проекта через API", zap.String("project_id", id))
	helpers.Success(w, http.StatusOK, struct{}{}, "Project deleted successfully")
}
