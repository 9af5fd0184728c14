package domain

import "time"

// Notification is handed to the notification collaborator after a chat send.
type Notification struct {
	RecipientID UserID `json:"recipientId"`
	Type        string `json:"type"`
	Message     string `json:"message"`
	Link        string `json:"link"`
}

// MessageRecord is what the message store reports back after persisting
// a chat message.
type MessageRecord struct {
	ID         string    `json:"id"`
	SenderID   UserID    `json:"senderId"`
	ReceiverID UserID    `json:"receiverId"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}
