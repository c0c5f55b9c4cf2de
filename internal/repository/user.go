package repository

import (
	"context"
	"time"

	"portfolio/internal/logger"
	"portfolio/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id::text, username, email, password_hash, reset_password_token, reset_password_expires, created_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.ResetPasswordTokenHash,
		&u.ResetPasswordExpiry,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// Create: только для cmd/createuser, в API регистрации нет.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	logger.Log.Info("Создание пользователя (repo)", zap.String("username", user.Username))
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	query := `
	INSERT INTO users (id, username, email, password_hash)
	VALUES ($1, $2, $3, $4)
	RETURNING created_at`
	return r.db.QueryRow(ctx, query, user.ID, user.Username, user.Email, user.PasswordHash).Scan(&user.CreatedAt)
}

// FindByEmail: email сравнивается как хранится (с учётом регистра).
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	logger.Log.Debug("Получение пользователя по email (repo)")
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// FindByValidResetHash: совпадение хеша и срок действия одной выборкой.
// Просроченные пары могут лежать в таблице, но сюда не попадают.
func (r *UserRepository) FindByValidResetHash(ctx context.Context, tokenHash string, now time.Time) (*models.User, error) {
	return scanUser(r.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE reset_password_token = $1
		  AND reset_password_expires > $2
	`, tokenHash, now))
}

// Save перезаписывает изменяемые поля одной записи.
func (r *UserRepository) Save(ctx context.Context, user *models.User) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET username = $2,
		    email = $3,
		    password_hash = $4,
		    reset_password_token = $5,
		    reset_password_expires = $6
		WHERE id = $1
	`, user.ID, user.Username, user.Email, user.PasswordHash, user.ResetPasswordTokenHash, user.ResetPasswordExpiry)
	if err != nil {
		logger.Log.Error("Ошибка сохранения пользователя (repo)", zap.String("user_id", user.ID), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearResetIfHash снимает пару, только если в записи всё ещё этот хеш.
// Пару, выставленную более новым запросом, не трогает.
func (r *UserRepository) ClearResetIfHash(ctx context.Context, id, tokenHash string) error {
	if !validID(id) {
		return ErrNotFound
	}
	_, err := r.db.Exec(ctx, `
		UPDATE users
		SET reset_password_token = NULL,
		    reset_password_expires = NULL
		WHERE id = $1
		  AND reset_password_token = $2
	`, id, tokenHash)
	if err != nil {
		logger.Log.Error("Ошибка отката токена сброса (repo)", zap.String("user_id", id), zap.Error(err))
		return err
	}
	return nil
}
