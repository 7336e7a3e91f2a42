package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/awaaz-labs/civic-portal/internal/config"
)

// ImageStore offloads ticket images to an S3-compatible object store. When no
// endpoint is configured the store is disabled and data URIs stay inline on
// the ticket document.
type ImageStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
	logger    *zap.Logger
}

// NewImageStore connects to the object store. Returns a disabled store when
// cfg.Endpoint is empty.
func NewImageStore(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (*ImageStore, error) {
	if cfg.Endpoint == "" {
		logger.Info("image store disabled; ticket images stored inline")
		return &ImageStore{logger: logger}, nil
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect image store: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	publicURL := strings.TrimSuffix(cfg.PublicURL, "/")
	if publicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}

	logger.Info("connected to image store", zap.String("bucket", cfg.Bucket))
	return &ImageStore{client: client, bucket: cfg.Bucket, publicURL: publicURL, logger: logger}, nil
}

// Enabled reports whether images are offloaded to the object store.
func (s *ImageStore) Enabled() bool {
	return s != nil && s.client != nil
}

// StoreImages uploads each data-URI image and returns the stored URLs.
// Non-data-URI entries (already-hosted URLs) pass through unchanged. When the
// store is disabled the input is returned as-is.
func (s *ImageStore) StoreImages(ctx context.Context, images []string) ([]string, error) {
	if !s.Enabled() || len(images) == 0 {
		return images, nil
	}

	stored := make([]string, 0, len(images))
	for _, img := range images {
		if !strings.HasPrefix(img, "data:") {
			stored = append(stored, img)
			continue
		}
		mediaType, data, err := DecodeDataURI(img)
		if err != nil {
			return nil, err
		}
		key := uuid.NewString() + extensionFor(mediaType)
		_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
			minio.PutObjectOptions{ContentType: mediaType})
		if err != nil {
			return nil, fmt.Errorf("store image: %w", err)
		}
		stored = append(stored, s.publicURL+"/"+key)
	}
	return stored, nil
}

// DecodeDataURI splits a base64 data URI into its media type and raw bytes.
func DecodeDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, fmt.Errorf("not a data uri")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("malformed data uri")
	}
	mediaType, encoding, _ := strings.Cut(meta, ";")
	if encoding != "base64" {
		return "", nil, fmt.Errorf("unsupported data uri encoding %q", encoding)
	}
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode data uri: %w", err)
	}
	return mediaType, data, nil
}

func extensionFor(mediaType string) string {
	switch mediaType {
	case "image/png":
		return ".png"
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
