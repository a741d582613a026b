package model

import "time"

// Message is immutable once created.
type Message struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ConversationID uint64    `gorm:"column:conversation_id;index;not null" json:"conversationId"`
	SenderID       uint64    `gorm:"column:sender_id;index;not null" json:"senderId"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	FileURL        *string   `gorm:"column:file_url;size:512" json:"fileUrl,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Message) TableName() string {
	return "messages"
}
