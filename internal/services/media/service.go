// Package media issues presigned upload URLs for post images. Clients
// upload directly to object storage and submit the resulting public URL
// with their post.
package media

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrValidation = errors.New("validation error")

const presignTTL = 15 * time.Minute

var allowedContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ObjectStorage is the slice of the minio client the service needs.
type ObjectStorage interface {
	PresignedPutObject(ctx context.Context, bucket, object string, expiry time.Duration) (*url.URL, error)
}

type Service struct {
	storage ObjectStorage
	bucket  string
	newID   func() string
}

func NewService(storage ObjectStorage, bucket string) *Service {
	return &Service{
		storage: storage,
		bucket:  bucket,
		newID:   func() string { return uuid.NewString() },
	}
}

// SetIDSource overrides object key generation. Test helper.
func (s *Service) SetIDSource(newID func() string) {
	if newID != nil {
		s.newID = newID
	}
}

// Presigned is a one-shot upload grant.
type Presigned struct {
	UploadURL string `json:"upload_url"`
	ObjectKey string `json:"object_key"`
	PublicURL string `json:"public_url"`
	ExpiresIn int    `json:"expires_in"`
}

// Presign issues an upload URL for one image object owned by userID.
// Object keys are random; callers cannot choose or overwrite paths.
func (s *Service) Presign(ctx context.Context, userID int64, contentType string) (Presigned, error) {
	if s.storage == nil {
		return Presigned{}, fmt.Errorf("object storage is not configured")
	}
	if userID <= 0 {
		return Presigned{}, ErrValidation
	}

	ext, ok := allowedContentTypes[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return Presigned{}, ErrValidation
	}

	key := path.Join("posts", fmt.Sprintf("%d", userID), s.newID()+ext)

	u, err := s.storage.PresignedPutObject(ctx, s.bucket, key, presignTTL)
	if err != nil {
		return Presigned{}, fmt.Errorf("presign upload: %w", err)
	}

	public := *u
	public.RawQuery = ""

	return Presigned{
		UploadURL: u.String(),
		ObjectKey: key,
		PublicURL: public.String(),
		ExpiresIn: int(presignTTL.Seconds()),
	}, nil
}
