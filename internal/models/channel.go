package models

import "time"

// Channel is a monitored Telegram e-commerce channel.
type Channel struct {
	ID         int       `json:"id"`
	Username   string    `json:"username"`
	Title      string    `json:"title"`
	VendorName string    `json:"vendor_name"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
