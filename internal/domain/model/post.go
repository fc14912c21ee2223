package model

import "time"

type Post struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// PostWithAuthor is the read shape for feed listings: the post row joined
// with its (anonymous) author record.
type PostWithAuthor struct {
	Post
	Author User `json:"author"`
}
