// createuser: заводит пользователя админки. Через API пользователи не создаются.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"portfolio/internal/config"
	"portfolio/internal/db"
	"portfolio/internal/logger"
	"portfolio/internal/models"
	"portfolio/internal/repository"
	"portfolio/internal/utils"

	"go.uber.org/zap"
)

func main() {
	email := flag.String("email", "", "email администратора")
	username := flag.String("username", "admin", "имя пользователя")
	password := flag.String("password", "", "пароль (не короче 6 символов)")
	flag.Parse()

	if err := run(strings.TrimSpace(*email), strings.TrimSpace(*username), *password); err != nil {
		fmt.Fprintln(os.Stderr, "createuser:", err)
		os.Exit(1)
	}
}

func run(email, username, password string) error {
	if email == "" || username == "" || password == "" {
		return fmt.Errorf("нужны -email, -username и -password")
	}
	if utf8.RuneCountInString(password) < 6 {
		return fmt.Errorf("пароль короче 6 символов")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.NewPostgresConnection(ctx, cfg)
	if err != nil {
		return fmt.Errorf("подключение к БД: %w", err)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		return err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	user := &models.User{Username: username, Email: email, PasswordHash: hash}
	if err := repository.NewUserRepository(pool).Create(ctx, user); err != nil {
		return fmt.Errorf("создание пользователя: %w", err)
	}

	logger.Log.Info("Пользователь создан", zap.String("user_id", user.ID), zap.String("username", username))
	return nil
}
