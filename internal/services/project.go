package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"portfolio/internal/logger"
	"portfolio/internal/models"
	"portfolio/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const MaxImageSize = 10 << 20

var imageTypes = map[string]bool{
	"jpeg": true,
	"jpg":  true,
	"png":  true,
	"gif":  true,
	"webp": true,
}

type ProjectStore interface {
	Create(ctx context.Context, p *models.Project) error
	List(ctx context.Context) ([]*models.Project, error)
	GetByID(ctx context.Context, id string) (*models.Project, error)
	Update(ctx context.Context, p *models.Project) error
	Delete(ctx context.Context, id string) error
}

type ProjectService struct {
	repo  ProjectStore
	media MediaStore
	now   func() time.Time
}

func NewProjectService(repo ProjectStore, media MediaStore) *ProjectService {
	return &ProjectService{repo: repo, media: media, now: time.Now}
}

var (
	errProjectNotFound = newError(ErrNotFound, "Project not found")
	errUploadFailed    = newError(ErrUpload, "Failed to upload image")
)

// ParseTags: "go, api,,web" -> [go api web].
func ParseTags(raw string) []string {
	out := make([]string, 0)
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// checkImage: и расширение, и content type должны быть картинкой из списка.
func checkImage(up *models.Upload) error {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(up.Filename)), ".")
	ct := strings.ToLower(up.ContentType)
	sub := strings.TrimPrefix(ct, "image/")
	if !imageTypes[ext] || !strings.HasPrefix(ct, "image/") || !imageTypes[sub] {
		return newError(ErrInvalidInput, "Images only! (jpeg, jpg, png, gif, webp)")
	}
	if up.Size > MaxImageSize {
		return newError(ErrInvalidInput, fmt.Sprintf("Image must be at most %dMB", MaxImageSize>>20))
	}
	return nil
}

func normalize(in *models.ProjectInput) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Link = strings.TrimSpace(in.Link)
}

func (s *ProjectService) upload(ctx context.Context, up *models.Upload) (*models.Image, error) {
	img, err := s.media.Upload(ctx, *up)
	if err != nil {
		logger.WithCtx(ctx).Error("Не удалось загрузить картинку проекта", zap.Error(err))
		return nil, errUploadFailed
	}
	return img, nil
}

// discard удаляет картинку, которая так и не попала в БД (или больше не нужна).
func (s *ProjectService) discard(ctx context.Context, img *models.Image) {
	if img.IsEmpty() {
		return
	}
	if err := s.media.Delete(context.WithoutCancel(ctx), img.PublicID); err != nil {
		logger.WithCtx(ctx).Warn("Не удалось удалить картинку", zap.String("public_id", img.PublicID), zap.Error(err))
	}
}

func (s *ProjectService) List(ctx context.Context) ([]*models.Project, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeErr("list projects", err)
	}
	return list, nil
}

func (s *ProjectService) Get(ctx context.Context, id string) (*models.Project, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapErr(err, "get project")
	}
	return p, nil
}

func (s *ProjectService) Create(ctx context.Context, in models.ProjectInput, up *models.Upload) (*models.Project, error) {
	log := logger.WithCtx(ctx)
	normalize(&in)
	if err := checkInput(in, "Please provide title, description, and link"); err != nil {
		return nil, err
	}
	if up != nil {
		if err := checkImage(up); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	p := &models.Project{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Link:        in.Link,
		Tags:        in.Tags,
		Featured:    in.Featured,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}

	if up != nil {
		img, err := s.upload(ctx, up)
		if err != nil {
			return nil, err
		}
		p.Image = img
	}

	if err := s.repo.Create(ctx, p); err != nil {
		log.Error("Ошибка сохранения проекта, чистим картинку", zap.Error(err))
		s.discard(ctx, p.Image)
		return nil, storeErr("create project", err)
	}

	log.Info("Проект создан", zap.String("project_id", p.ID))
	return p, nil
}

// Update заменяет поля проекта. Новая картинка загружается до записи в БД,
// старая удаляется только после успешного обновления.
func (s *ProjectService) Update(ctx context.Context, id string, in models.ProjectInput, up *models.Upload) (*models.Project, error) {
	log := logger.WithCtx(ctx)

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapErr(err, "get project")
	}

	normalize(&in)
	if err := checkInput(in, "Please provide title, description, and link"); err != nil {
		return nil, err
	}
	if up != nil {
		if err := checkImage(up); err != nil {
			return nil, err
		}
	}

	old := p.Image
	p.Title = in.Title
	p.Description = in.Description
	p.Link = in.Link
	p.Featured = in.Featured
	if in.Tags != nil {
		p.Tags = in.Tags
	}
	p.UpdatedAt = s.now().UTC()

	if up != nil {
		img, err := s.upload(ctx, up)
		if err != nil {
			return nil, err
		}
		p.Image = img
	}

	if err := s.repo.Update(ctx, p); err != nil {
		if up != nil {
			s.discard(ctx, p.Image)
		}
		return nil, s.mapErr(err, "update project")
	}

	if up != nil {
		s.discard(ctx, old)
	}
	log.Info("Проект обновлён", zap.String("project_id", p.ID))
	return p, nil
}

// Delete удаляет проект, затем его картинку. Ошибка удаления картинки
// только логируется.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return s.mapErr(err, "get project")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapErr(err, "delete project")
	}
	s.discard(ctx, p.Image)
	logger.WithCtx(ctx).Info("Проект удалён", zap.String("project_id", id))
	return nil
}

func (s *ProjectService) mapErr(err error, op string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return errProjectNotFound
	}
	return storeErr(op, err)
}
