package models

import "time"

type MessageKind string

const (
	MessageDirect  MessageKind = "DIRECT"
	MessageSupport MessageKind = "SUPPORT"
)

// Message keeps independent delete flags for each side. The row is removed
// only after both participants deleted it.
type Message struct {
	ID                string
	SenderID          string
	ReceiverID        string
	Kind              MessageKind
	Content           string
	IsRead            bool
	ReadAt            *time.Time
	DeletedBySender   bool
	DeletedByReceiver bool
	CreatedAt         time.Time
}
