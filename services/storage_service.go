// file: services/storage_service.go
package services

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"
)

const (
	signedURLTTL = 15 * time.Minute

	// Cached below the presign TTL so a cached URL can never outlive the
	// underlying signature.
	signedURLCacheTTL = 10 * time.Minute
)

// R2Storage talks to the S3-compatible document store. Only opaque storage
// keys are ever persisted; browsable URLs are minted on read and cached.
type R2Storage struct {
	client *minio.Client
	bucket string
	cache  *redis.Client
}

func NewR2Storage(client *minio.Client, bucket string, cache *redis.Client) *R2Storage {
	return &R2Storage{client: client, bucket: bucket, cache: cache}
}

func (s *R2Storage) Upload(ctx context.Context, file *multipart.FileHeader, prefix, ownerID string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	key := BuildStorageKey(prefix, ownerID, file.Filename)

	opts := minio.PutObjectOptions{ContentType: file.Header.Get("Content-Type")}
	if _, err := s.client.PutObject(ctx, s.bucket, key, src, file.Size, opts); err != nil {
		return "", err
	}
	return key, nil
}

func (s *R2Storage) SignedURL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}

	cacheKey := "signedurl:" + key
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			return cached, nil
		}
	}

	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, signedURLTTL, nil)
	if err != nil {
		return "", err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, u.String(), signedURLCacheTTL).Err(); err != nil {
			log.Printf("signed url cache write failed: %v", err)
		}
	}
	return u.String(), nil
}

// BuildStorageKey namespaces an upload under its logical prefix and owner.
// The uuid fragment keeps re-uploads within the same second from colliding.
func BuildStorageKey(prefix, ownerID, filename string) string {
	return fmt.Sprintf("%s/%s_%d_%s%s",
		prefix, ownerID, time.Now().Unix(), uuid.NewString()[:8], filepath.Ext(filename))
}
