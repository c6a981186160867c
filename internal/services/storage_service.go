// internal/services/storage_service.go
package services

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/niceai/studio-backend/internal/config"
)

// StorageService persists generated images and serves back stable URLs.
// With AWS credentials configured it writes to S3 (optionally fronted by
// CloudFront); without them it falls back to a local uploads directory
// served by the HTTP server in development.
type StorageService struct {
	s3Client *s3.S3
	config   *config.Config
}

type UploadResult struct {
	URL  string `json:"url"`
	Key  string `json:"key"`
	Size int64  `json:"size"`
}

func NewStorageService(cfg *config.Config) (*StorageService, error) {
	if cfg.AWS.AccessKeyID == "" {
		if err := os.MkdirAll(cfg.AWS.LocalUploadsDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create local uploads dir: %w", err)
		}
		return &StorageService{config: cfg}, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWS.AccessKeyID,
			cfg.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &StorageService{
		s3Client: s3.New(sess),
		config:   cfg,
	}, nil
}

// PutImage stores a PNG under the given folder and returns its public URL.
func (s *StorageService) PutImage(data []byte, folder string) (*UploadResult, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image data")
	}
	key := s.generateKey(folder)

	if s.s3Client != nil {
		return s.putToS3(data, key)
	}
	return s.putToLocal(data, key)
}

func (s *StorageService) putToS3(data []byte, key string) (*UploadResult, error) {
	_, err := s.s3Client.PutObject(&s3.PutObjectInput{
		Bucket:        aws.String(s.config.AWS.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String("image/png"),
		ContentLength: aws.Int64(int64(len(data))),
		ACL:           aws.String("public-read"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &UploadResult{
		URL:  s.getS3URL(key),
		Key:  key,
		Size: int64(len(data)),
	}, nil
}

func (s *StorageService) putToLocal(data []byte, key string) (*UploadResult, error) {
	path := filepath.Join(s.config.AWS.LocalUploadsDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads folder: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write local upload: %w", err)
	}

	url := fmt.Sprintf("http://%s:%s/uploads/%s", s.config.Server.Host, s.config.Server.Port, key)
	return &UploadResult{
		URL:  url,
		Key:  key,
		Size: int64(len(data)),
	}, nil
}

// KeyFromRef resolves a public image URL back to its storage key. Local
// URLs carry the key after /uploads/, S3 and CloudFront URLs carry it as
// the path. An unparseable ref resolves to the empty string.
func (s *StorageService) KeyFromRef(ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	key := strings.TrimPrefix(u.Path, "/")
	return strings.TrimPrefix(key, "uploads/")
}

// DeleteImage removes a stored image. Used for superseded preview mockups;
// failures are logged and tolerated.
func (s *StorageService) DeleteImage(key string) error {
	if key == "" {
		return nil
	}

	if s.s3Client == nil {
		path := filepath.Join(s.config.AWS.LocalUploadsDir, filepath.FromSlash(key))
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete local upload: %w", err)
		}
		return nil
	}

	_, err := s.s3Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.config.AWS.S3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}

// DeleteImageAsync is DeleteImage on a background goroutine for callers
// that must not block on storage cleanup.
func (s *StorageService) DeleteImageAsync(key string) {
	go func() {
		if err := s.DeleteImage(key); err != nil {
			logrus.WithError(err).WithField("key", key).Warn("Failed to delete stored image")
		}
	}()
}

func (s *StorageService) generateKey(folder string) string {
	id := uuid.New()
	timestamp := time.Now().Format("20060102")
	filename := fmt.Sprintf("%s_%s.png", timestamp, id.String()[:8])

	if folder != "" {
		return fmt.Sprintf("%s/%s", folder, filename)
	}
	return filename
}

func (s *StorageService) getS3URL(key string) string {
	if s.config.AWS.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", s.config.AWS.CloudFrontURL, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s",
		s.config.AWS.S3Bucket, s.config.AWS.Region, key)
}
