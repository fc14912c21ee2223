package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	mediasvc "github.com/talelapse/a-board-view/internal/services/media"
	"github.com/talelapse/a-board-view/internal/transport/http/dto"
)

type stubObjectStorage struct{}

func (stubObjectStorage) PresignedPutObject(_ context.Context, bucket, object string, _ time.Duration) (*url.URL, error) {
	return url.Parse("https://s3.example.com/" + bucket + "/" + object + "?sig=abc")
}

func TestPresignUpload(t *testing.T) {
	handler := NewMediaHandler(mediasvc.NewService(stubObjectStorage{}, "media"))

	body := []byte(`{"user_id":7,"content_type":"image/jpeg"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/media/presign", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Presign(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp dto.PresignUploadResponse
	decodeBody(t, rec, &resp)
	if resp.UploadURL == "" || resp.PublicURL == "" || resp.ObjectKey == "" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestPresignUploadRejectsBadContentType(t *testing.T) {
	handler := NewMediaHandler(mediasvc.NewService(stubObjectStorage{}, "media"))

	body := []byte(`{"user_id":7,"content_type":"text/html"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/media/presign", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Presign(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestPresignUploadUnconfigured(t *testing.T) {
	handler := NewMediaHandler(nil)

	body := []byte(`{"user_id":7,"content_type":"image/jpeg"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/media/presign", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Presign(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
}
