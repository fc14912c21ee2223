package media

import (
	"context"
	"net/url"
	"testing"
	"time"
)

type stubStorage struct {
	bucket string
	object string
	expiry time.Duration
}

func (s *stubStorage) PresignedPutObject(_ context.Context, bucket, object string, expiry time.Duration) (*url.URL, error) {
	s.bucket = bucket
	s.object = object
	s.expiry = expiry
	return url.Parse("https://s3.example.com/" + bucket + "/" + object + "?X-Amz-Signature=abc")
}

func TestPresignBuildsRandomKey(t *testing.T) {
	store := &stubStorage{}
	svc := NewService(store, "media")
	svc.SetIDSource(func() string { return "fixed-id" })

	got, err := svc.Presign(context.Background(), 7, "image/png")
	if err != nil {
		t.Fatalf("Presign: %v", err)
	}

	if store.bucket != "media" {
		t.Errorf("bucket = %q", store.bucket)
	}
	if want := "posts/7/fixed-id.png"; got.ObjectKey != want {
		t.Errorf("key = %q, want %q", got.ObjectKey, want)
	}
	if got.PublicURL != "https://s3.example.com/media/posts/7/fixed-id.png" {
		t.Errorf("public url = %q, want signature stripped", got.PublicURL)
	}
	if got.UploadURL == got.PublicURL {
		t.Error("upload url must keep the signed query")
	}
	if got.ExpiresIn != int(presignTTL.Seconds()) {
		t.Errorf("expires_in = %d", got.ExpiresIn)
	}
}

func TestPresignRejectsUnknownContentType(t *testing.T) {
	svc := NewService(&stubStorage{}, "media")

	if _, err := svc.Presign(context.Background(), 7, "application/zip"); err != ErrValidation {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if _, err := svc.Presign(context.Background(), 0, "image/png"); err != ErrValidation {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}
