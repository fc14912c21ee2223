package ws

import "github.com/talelapse/a-board-view/internal/domain/model"

const (
	frameAuth        = "auth"
	frameAuthOK      = "auth_ok"
	frameChatMessage = "chat_message"
	frameError       = "error"
)

// clientFrame is the single envelope for everything a client sends.
// Unused fields stay zero for a given type.
type clientFrame struct {
	Type    string `json:"type"`
	UserID  int64  `json:"user_id,omitempty"`
	MatchID int64  `json:"match_id,omitempty"`
	Content string `json:"content,omitempty"`
}

type serverFrame struct {
	Type    string             `json:"type"`
	Message *model.ChatMessage `json:"message,omitempty"`
	Sender  *model.User        `json:"sender,omitempty"`
	Error   string             `json:"error,omitempty"`
}

func messageFrame(msg model.ChatMessage, sender model.User) serverFrame {
	return serverFrame{Type: frameChatMessage, Message: &msg, Sender: &sender}
}

func errorFrame(text string) serverFrame {
	return serverFrame{Type: frameError, Error: text}
}
