package models

import "time"

type Board struct {
	ID          string
	Name        string
	Description string
	CreatedBy   string
	CreatedAt   time.Time
}

// BoardManager is one (user, board) moderation relation.
type BoardManager struct {
	ID        string
	UserID    string
	BoardID   string
	CreatedAt time.Time
}
