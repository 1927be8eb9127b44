package models

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

type Message struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	SenderID    uint      `json:"sender_id" gorm:"not null;index:idx_sender_receiver"`
	ReceiverID  uint      `json:"receiver_id" gorm:"not null;index:idx_sender_receiver"`
	Content     string    `json:"content" gorm:"type:text;not null"`
	ContentHash string    `json:"content_hash" gorm:"size:64"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`

	Sender   User `json:"-" gorm:"foreignKey:SenderID"`
	Receiver User `json:"-" gorm:"foreignKey:ReceiverID"`
}

func (Message) TableName() string {
	return "messages"
}

// HashContent returns the hex SHA-256 digest stored in ContentHash.
func HashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
