package models

import "time"

type Message struct {
	ID uint `gorm:"primaryKey"`

	SenderID uint `gorm:"index;not null"`
	Sender   User `gorm:"foreignKey:SenderID"`

	RecipientID uint `gorm:"index;not null"`
	Recipient   User `gorm:"foreignKey:RecipientID"`

	Content string `gorm:"size:2000;not null"`

	// Null until the recipient opens the thread.
	ReadAt *time.Time

	CreatedAt time.Time
}
