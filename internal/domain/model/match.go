package model

import "time"

// Match pairs exactly two distinct users for a chat. Rows are immutable
// after creation; there is no "ended" state.
type Match struct {
	ID        int64     `json:"id"`
	User1ID   int64     `json:"user1_id"`
	User2ID   int64     `json:"user2_id"`
	CreatedAt time.Time `json:"created_at"`
}

// OtherParticipant returns the participant opposite to userID. The second
// result is false when userID is not part of the match.
func (m Match) OtherParticipant(userID int64) (int64, bool) {
	switch userID {
	case m.User1ID:
		return m.User2ID, true
	case m.User2ID:
		return m.User1ID, true
	default:
		return 0, false
	}
}

type MatchWithUsers struct {
	Match
	User1 User `json:"user1"`
	User2 User `json:"user2"`
}
