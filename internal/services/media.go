package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"portfolio/internal/config"
	"portfolio/internal/logger"
	"portfolio/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MediaStore: хостинг картинок проектов.
type MediaStore interface {
	Upload(ctx context.Context, up models.Upload) (*models.Image, error)
	Delete(ctx context.Context, publicID string) error
}

var errMediaDisabled = errors.New("media store is not configured (S3_BUCKET)")

// s3API: подмножество клиента S3, подменяется в тестах.
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3MediaStore struct {
	client    s3API
	bucket    string
	folder    string
	publicURL string
}

var loadAWSConfig = awsconfig.LoadDefaultConfig

func NewS3MediaStore(ctx context.Context, cfg *config.Config) (*S3MediaStore, error) {
	store := &S3MediaStore{
		bucket:    cfg.S3Bucket,
		folder:    cfg.S3Folder,
		publicURL: cfg.S3PublicURL,
	}
	if cfg.S3Bucket == "" {
		return store, nil
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.S3Region)}
	if cfg.S3AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		))
	}
	awsCfg, err := loadAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	store.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})
	if store.publicURL == "" {
		if cfg.S3Endpoint != "" {
			store.publicURL = strings.TrimRight(cfg.S3Endpoint, "/") + "/" + cfg.S3Bucket
		} else {
			store.publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.S3Region)
		}
	}
	return store, nil
}

func (s *S3MediaStore) key(filename string) string {
	name := uuid.NewString() + strings.ToLower(path.Ext(filename))
	if s.folder == "" {
		return name
	}
	return s.folder + "/" + name
}

// Upload кладёт файл под folder/<uuid><ext>. Тело вычитывается в память:
// картинки ограничены по размеру заранее, а S3 нужен seekable body.
func (s *S3MediaStore) Upload(ctx context.Context, up models.Upload) (*models.Image, error) {
	if s.client == nil {
		return nil, errMediaDisabled
	}
	data, err := io.ReadAll(up.Body)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	key := s.key(up.Filename)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(up.ContentType),
	})
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка загрузки в S3", zap.String("key", key), zap.Error(err))
		return nil, err
	}

	logger.WithCtx(ctx).Info("Картинка загружена", zap.String("key", key), zap.Int("size", len(data)))
	return &models.Image{PublicID: key, URL: s.publicURL + "/" + key}, nil
}

func (s *S3MediaStore) Delete(ctx context.Context, publicID string) error {
	if s.client == nil {
		return errMediaDisabled
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(publicID),
	})
	return err
}
