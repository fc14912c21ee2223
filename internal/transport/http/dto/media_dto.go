package dto

type PresignUploadRequest struct {
	UserID      int64  `json:"user_id"`
	ContentType string `json:"content_type"`
}

type PresignUploadResponse struct {
	UploadURL string `json:"upload_url"`
	ObjectKey string `json:"object_key"`
	PublicURL string `json:"public_url"`
	ExpiresIn int    `json:"expires_in"`
}
