package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mathpath_backend/internal/config"
	"mathpath_backend/internal/util"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StorageProvider 文件存储后端（头像、题目配图）
type StorageProvider interface {
	Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error)
}

// StorageService 按配置选择本地盘或MinIO
type StorageService struct {
	provider StorageProvider
}

func NewStorageService(cfg config.StorageConfig) (*StorageService, error) {
	switch cfg.Type {
	case util.StorageMinio:
		provider, err := newMinioStorage(cfg)
		if err != nil {
			return nil, err
		}
		return &StorageService{provider: provider}, nil
	case util.StorageLocal, "":
		path := cfg.LocalPath
		if path == "" {
			path = "./uploads"
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return nil, err
		}
		return &StorageService{provider: &localStorage{basePath: path}}, nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// UploadImage 存一张图片并返回可访问的URL路径。
// 不信任客户端报的 Content-Type，按文件头做深度校验。
func (s *StorageService) UploadImage(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	if !util.IsImage(contentType) {
		return "", fmt.Errorf("unsupported content type: %s", contentType)
	}

	var head bytes.Buffer
	detected, err := util.ValidateMimeType(io.TeeReader(reader, &head), []string{util.MimeImage})
	if err != nil {
		return "", err
	}
	body := io.MultiReader(&head, reader)

	ext := filepath.Ext(filename)
	objectName := fmt.Sprintf("%s/%s%s", time.Now().Format("2006/01"), uuid.New().String(), ext)
	return s.provider.Upload(ctx, objectName, body, size, detected)
}

type localStorage struct {
	basePath string
}

func (l *localStorage) Upload(_ context.Context, objectName string, reader io.Reader, _ int64, _ string) (string, error) {
	fullPath := filepath.Join(l.basePath, objectName)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", err
	}

	f, err := os.Create(fullPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, reader); err != nil {
		return "", err
	}
	return "/uploads/" + objectName, nil
}

type minioStorage struct {
	client *minio.Client
	bucket string
}

func newMinioStorage(cfg config.StorageConfig) (*minioStorage, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds: credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}

	return &minioStorage{client: client, bucket: cfg.MinioBucket}, nil
}

func (m *minioStorage) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := m.client.PutObject(ctx, m.bucket, objectName, reader, size,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("/%s/%s", m.bucket, objectName), nil
}
