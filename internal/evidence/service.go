// Package evidence stores supporting files for BRD entities, such as
// screenshots, recordings and client documents, in S3-compatible object
// storage. Uploads are keyed by project and entity so the workspace can
// link evidence back to the entity it supports.
package evidence

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"scopeline/workbench/internal/brd"
)

// ErrEmptyFilename is returned when an upload has no usable filename.
var ErrEmptyFilename = errors.New("evidence filename is empty")

// Upload describes a stored evidence object.
type Upload struct {
	Key         string `json:"key"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// Service wraps an S3-compatible bucket for evidence storage.
type Service struct {
	client *minio.Client
	bucket string
	log    *zap.Logger
}

// Config holds object storage connection settings.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func NewService(cfg Config, log *zap.Logger) (*Service, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect object storage: %w", err)
	}
	return &Service{client: client, bucket: cfg.Bucket, log: log}, nil
}

// EnsureBucket creates the evidence bucket if it does not exist.
func (s *Service) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket: %w", err)
	}
	s.log.Info("created evidence bucket", zap.String("bucket", s.bucket))
	return nil
}

// Store uploads an evidence file and returns its descriptor. The object
// key embeds project, entity type and a fresh id so repeated uploads of
// the same filename never collide.
func (s *Service) Store(ctx context.Context, projectID string, entityType brd.EntityType, filename string, r io.Reader, size int64) (Upload, error) {
	key, contentType, err := ObjectKey(projectID, entityType, filename)
	if err != nil {
		return Upload{}, err
	}

	info, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return Upload{}, fmt.Errorf("upload evidence: %w", err)
	}

	s.log.Info("stored evidence",
		zap.String("projectId", projectID),
		zap.String("key", key),
		zap.Int64("size", info.Size))

	return Upload{
		Key:         key,
		Filename:    path.Base(filename),
		ContentType: contentType,
		Size:        info.Size,
	}, nil
}

// Fetch streams a stored evidence object. The caller closes the reader.
func (s *Service) Fetch(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("fetch evidence: %w", err)
	}
	return obj, nil
}

// Remove deletes a stored evidence object.
func (s *Service) Remove(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove evidence: %w", err)
	}
	return nil
}

// ObjectKey builds the storage key and content type for an upload.
func ObjectKey(projectID string, entityType brd.EntityType, filename string) (key, contentType string, err error) {
	base := path.Base(strings.TrimSpace(filename))
	if base == "" || base == "." || base == "/" {
		return "", "", ErrEmptyFilename
	}

	contentType = mime.TypeByExtension(path.Ext(base))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	kind := string(entityType)
	if kind == "" {
		kind = "general"
	}
	key = path.Join(projectID, kind, uuid.NewString()+"-"+base)
	return key, contentType, nil
}
