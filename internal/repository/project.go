package repository

import (
	"context"

	"portfolio/internal/logger"
	"portfolio/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type ProjectRepository struct {
	db *pgxpool.Pool
}

func NewProjectRepository(db *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `id::text, title, description, link, tags, featured, image_public_id, image_url, created_at, updated_at`

func scanProject(row pgx.Row) (*models.Project, error) {
	var (
		p        models.Project
		publicID *string
		url      *string
	)
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Link, &p.Tags, &p.Featured, &publicID, &url, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	if publicID != nil && *publicID != "" {
		p.Image = &models.Image{PublicID: *publicID}
		if url != nil {
			p.Image.URL = *url
		}
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return &p, nil
}

func imageColumns(img *models.Image) (publicID, url *string) {
	if img.IsEmpty() {
		return nil, nil
	}
	return &img.PublicID, &img.URL
}

func (r *ProjectRepository) Create(ctx context.Context, p *models.Project) error {
	publicID, url := imageColumns(p.Image)
	_, err := r.db.Exec(ctx, `
		INSERT INTO projects (id, title, description, link, tags, featured, image_public_id, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.Title, p.Description, p.Link, p.Tags, p.Featured, publicID, url, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		logger.Log.Error("Ошибка сохранения проекта (repo)", zap.Error(err))
	}
	return err
}

func (r *ProjectRepository) List(ctx context.Context) ([]*models.Project, error) {
	rows, err := r.db.Query(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC`)
	if err != nil {
		logger.Log.Error("Ошибка получения проектов (repo)", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	out := make([]*models.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	return scanProject(r.db.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id))
}

func (r *ProjectRepository) Update(ctx context.Context, p *models.Project) error {
	publicID, url := imageColumns(p.Image)
	tag, err := r.db.Exec(ctx, `
		UPDATE projects
		SET title = $2, description = $3, link = $4, tags = $5, featured = $6,
		    image_public_id = $7, image_url = $8, updated_at = $9
		WHERE id = $1`,
		p.ID, p.Title, p.Description, p.Link, p.Tags, p.Featured, publicID, url, p.UpdatedAt,
	)
	if err != nil {
		logger.Log.Error("Ошибка обновления проекта (repo)", zap.String("project_id", p.ID), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		logger.Log.Error("Ошибка удаления проекта (repo)", zap.String("project_id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
