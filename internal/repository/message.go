package repository

import (
	"context"

	"portfolio/internal/logger"
	"portfolio/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type MessageRepository struct {
	db *pgxpool.Pool
}

func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{db: db}
}

const messageColumns = `id::text, name, email, subject, message, read, created_at`

func scanMessage(row pgx.Row) (*models.Message, error) {
	var m models.Message
	if err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.Read, &m.CreatedAt); err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

func (r *MessageRepository) Create(ctx context.Context, m *models.Message) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO messages (id, name, email, subject, message, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.Name, m.Email, m.Subject, m.Message, m.Read, m.CreatedAt,
	)
	if err != nil {
		logger.Log.Error("Ошибка сохранения сообщения (repo)", zap.Error(err))
	}
	return err
}

// List: сначала непрочитанные, внутри группы новые сверху.
func (r *MessageRepository) List(ctx context.Context) ([]*models.Message, error) {
	rows, err := r.db.Query(ctx, `SELECT `+messageColumns+` FROM messages ORDER BY read ASC, created_at DESC`)
	if err != nil {
		logger.Log.Error("Ошибка получения сообщений (repo)", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	out := make([]*models.Message, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *MessageRepository) GetByID(ctx context.Context, id string) (*models.Message, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	return scanMessage(r.db.QueryRow(ctx, `SELECT `+messageColumns+` FROM messages WHERE id = $1`, id))
}

func (r *MessageRepository) MarkRead(ctx context.Context, id string) (*models.Message, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	return scanMessage(r.db.QueryRow(ctx,
		`UPDATE messages SET read = true WHERE id = $1 RETURNING `+messageColumns, id))
}

func (r *MessageRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		logger.Log.Error("Ошибка удаления сообщения (repo)", zap.String("message_id", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
