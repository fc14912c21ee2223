package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/talelapse/a-board-view/internal/domain/model"
)

type ChatMessageRepo struct {
	pool *pgxpool.Pool
}

func NewChatMessageRepo(pool *pgxpool.Pool) *ChatMessageRepo {
	return &ChatMessageRepo{pool: pool}
}

func (r *ChatMessageRepo) CreateChatMessage(ctx context.Context, matchID, senderID int64, content string) (model.ChatMessage, error) {
	if r.pool == nil {
		return model.ChatMessage{}, fmt.Errorf("postgres pool is nil")
	}
	if matchID <= 0 || senderID <= 0 || content == "" {
		return model.ChatMessage{}, fmt.Errorf("invalid chat message payload")
	}

	var msg model.ChatMessage
	err := r.pool.QueryRow(ctx, `
INSERT INTO chat_messages (match_id, sender_id, content, created_at)
VALUES ($1, $2, $3, NOW())
RETURNING id, match_id, sender_id, content, created_at
`, matchID, senderID, content).Scan(
		&msg.ID,
		&msg.MatchID,
		&msg.SenderID,
		&msg.Content,
		&msg.CreatedAt,
	)
	if err != nil {
		return model.ChatMessage{}, fmt.Errorf("insert chat message: %w", err)
	}

	return msg, nil
}

// ListChatMessages returns the match history in creation order.
func (r *ChatMessageRepo) ListChatMessages(ctx context.Context, matchID int64) ([]model.ChatMessage, error) {
	if matchID <= 0 {
		return nil, fmt.Errorf("invalid match id")
	}
	if r.pool == nil {
		return []model.ChatMessage{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, match_id, sender_id, content, created_at
FROM chat_messages
WHERE match_id = $1
ORDER BY created_at, id
`, matchID)
	if err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}
	defer rows.Close()

	var items []model.ChatMessage
	for rows.Next() {
		var msg model.ChatMessage
		if err := rows.Scan(
			&msg.ID,
			&msg.MatchID,
			&msg.SenderID,
			&msg.Content,
			&msg.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		items = append(items, msg)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate chat messages: %w", rows.Err())
	}

	return items, nil
}
