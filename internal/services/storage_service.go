// internal/services/storage_service.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
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

	"github.com/javajoker/imob-backoffice/internal/config"
)

// Upload is a file received from a client, already opened.
type Upload struct {
	Filename string
	Size     int64
	Body     io.Reader
}

type UploadOptions struct {
	MaxSize      int64 // in bytes
	AllowedTypes []string
	ContentTypes []string
}

var (
	ImageTypes = UploadOptions{
		MaxSize:      5 * 1024 * 1024, // 5MB
		AllowedTypes: []string{".jpg", ".jpeg", ".png", ".webp"},
		ContentTypes: []string{"image/jpeg", "image/png", "image/webp"},
	}
	DocumentTypes = UploadOptions{
		MaxSize:      20 * 1024 * 1024, // 20MB
		AllowedTypes: []string{".pdf", ".jpg", ".jpeg", ".png"},
		ContentTypes: []string{"application/pdf", "image/jpeg", "image/png"},
	}
)

// StorageService writes attachments to an S3 compatible bucket, or to a local
// directory when no credentials are configured.
type StorageService struct {
	s3Client *s3.S3
	cfg      config.StorageConfig
}

func NewStorageService(cfg config.StorageConfig) (*StorageService, error) {
	if cfg.AccessKeyID == "" {
		// Local development stores files on disk
		return &StorageService{cfg: cfg}, nil
	}

	awsCfg := &aws.Config{
		Region: aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &StorageService{
		s3Client: s3.New(sess),
		cfg:      cfg,
	}, nil
}

func (s *StorageService) IsLocal() bool {
	return s.s3Client == nil
}

// Store validates the upload against options and returns the public URL of
// the stored object.
func (s *StorageService) Store(ctx context.Context, upload *Upload, folder string, options UploadOptions) (string, error) {
	if upload == nil || upload.Body == nil {
		return "", invalidField("file", "required", "file is required")
	}

	// Validate file size
	if options.MaxSize > 0 && upload.Size > options.MaxSize {
		return "", invalidField("file", "max", fmt.Sprintf("file exceeds %d bytes", options.MaxSize))
	}

	ext := strings.ToLower(filepath.Ext(upload.Filename))
	if !contains(options.AllowedTypes, ext) {
		return "", invalidField("file", "type", fmt.Sprintf("file type %q is not allowed", ext))
	}

	data, err := io.ReadAll(io.LimitReader(upload.Body, options.MaxSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	if options.MaxSize > 0 && int64(len(data)) > options.MaxSize {
		return "", invalidField("file", "max", fmt.Sprintf("file exceeds %d bytes", options.MaxSize))
	}

	// The extension is client supplied; the content has to agree.
	contentType := http.DetectContentType(data)
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	if !contains(options.ContentTypes, contentType) {
		return "", invalidField("file", "type", fmt.Sprintf("content type %q is not allowed", contentType))
	}

	key := generateKey(folder, ext)
	if s.s3Client != nil {
		return s.uploadToS3(ctx, data, key, contentType)
	}
	return s.uploadToLocal(data, key)
}

func (s *StorageService) uploadToS3(ctx context.Context, data []byte, key, contentType string) (string, error) {
	_, err := s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return s.publicURL(key), nil
}

func (s *StorageService) uploadToLocal(data []byte, key string) (string, error) {
	path := filepath.Join(s.cfg.LocalPath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return s.publicURL(key), nil
}

// Remove deletes an object previously returned by Store. Failures are only
// logged; a stale object is not worth failing the request over.
func (s *StorageService) Remove(ctx context.Context, url string) {
	key, ok := s.keyFromURL(url)
	if !ok {
		return
	}

	var err error
	if s.s3Client != nil {
		_, err = s.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.cfg.Bucket),
			Key:    aws.String(key),
		})
	} else {
		err = os.Remove(filepath.Join(s.cfg.LocalPath, filepath.FromSlash(key)))
	}
	if err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Failed to remove stored file")
	}
}

func (s *StorageService) GeneratePresignedURL(url string, expiration time.Duration) (string, error) {
	if s.s3Client == nil {
		return url, nil
	}
	key, ok := s.keyFromURL(url)
	if !ok {
		return "", fmt.Errorf("%w: not a stored object", ErrNotFound)
	}

	req, _ := s.s3Client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})

	signed, err := req.Presign(expiration)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return signed, nil
}

func (s *StorageService) baseURL() string {
	switch {
	case s.cfg.PublicURL != "":
		return strings.TrimRight(s.cfg.PublicURL, "/")
	case s.s3Client == nil:
		return "/uploads"
	case s.cfg.Endpoint != "":
		return fmt.Sprintf("%s/%s", strings.TrimRight(s.cfg.Endpoint, "/"), s.cfg.Bucket)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", s.cfg.Bucket, s.cfg.Region)
	}
}

func (s *StorageService) publicURL(key string) string {
	return s.baseURL() + "/" + key
}

func (s *StorageService) keyFromURL(url string) (string, bool) {
	prefix := s.baseURL() + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(url, prefix)
	if key == "" || strings.Contains(key, "..") {
		return "", false
	}
	return key, true
}

func generateKey(folder, ext string) string {
	// Create filename with timestamp and UUID
	filename := fmt.Sprintf("%s_%s%s", time.Now().UTC().Format("20060102"), uuid.New().String()[:8], ext)
	if folder != "" {
		return folder + "/" + filename
	}
	return filename
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
