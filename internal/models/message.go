package models

import "time"

// Message processing statuses.
const (
	MessageStatusPending   = "pending"
	MessageStatusProcessed = "processed"
	MessageStatusFailed    = "failed"
)

// Message is a single channel post captured by the ingester.
type Message struct {
	ID             int       `json:"id"`
	ChannelID      int       `json:"channel_id"`
	TelegramID     int64     `json:"telegram_id"`
	Text           string    `json:"text"`
	NormalizedText string    `json:"normalized_text"`
	Views          int       `json:"views"`
	PostedAt       time.Time `json:"posted_at"`
	Status         string    `json:"status"`
	Attempts       int       `json:"attempts"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
