package handlers

import "time"

type ChannelRequest struct {
	Username   string `json:"username"`
	Title      string `json:"title"`
	VendorName string `json:"vendor_name"`
	Active     *bool  `json:"active,omitempty"`
}

type ChannelResponse struct {
	Id         int    `json:"id"`
	Username   string `json:"username"`
	Title      string `json:"title"`
	VendorName string `json:"vendor_name"`
	Active     bool   `json:"active"`
}

type Meta struct {
	TotalCount int `json:"total_count"`
}

type MessageResponse struct {
	Id             int       `json:"id"`
	ChannelId      int       `json:"channel_id"`
	TelegramId     int64     `json:"telegram_id"`
	Text           string    `json:"text"`
	NormalizedText string    `json:"normalized_text"`
	Views          int       `json:"views"`
	PostedAt       time.Time `json:"posted_at"`
	Status         string    `json:"status"`
	Attempts       int       `json:"attempts"`
}

type MessagesSearchResult struct {
	Data []MessageResponse `json:"data"`
	Meta Meta              `json:"meta,omitempty"`
}

type MessageDetailResponse struct {
	MessageResponse
	Entities []EntityResponse `json:"entities"`
}

type EntityResponse struct {
	Id              int      `json:"id"`
	MessageId       int      `json:"message_id"`
	Type            string   `json:"type"`
	Value           string   `json:"value"`
	NormalizedValue string   `json:"normalized_value"`
	AmountETB       *float64 `json:"amount_etb,omitempty"`
	Source          string   `json:"source"`
	Confidence      float64  `json:"confidence"`
	TokenStart      int      `json:"token_start"`
	TokenEnd        int      `json:"token_end"`
}

type EntitiesSearchResult struct {
	Data []EntityResponse `json:"data"`
	Meta Meta             `json:"meta,omitempty"`
}

type IngestRequest struct {
	ChannelUsername string `json:"channel_username"`
	TelegramId      int64  `json:"telegram_id"`
	Text            string `json:"text"`
	Views           int    `json:"views"`
	PostedAt        string `json:"posted_at,omitempty"` // RFC3339, defaults to now
}

type IngestResult struct {
	MessageId int    `json:"message_id"`
	Status    string `json:"status"`
	Enqueued  bool   `json:"enqueued"`
}

type ReprocessResult struct {
	MessageId int    `json:"message_id"`
	Status    string `json:"status"`
	Enqueued  bool   `json:"enqueued"`
}

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterAsAdminRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginResult struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

type RegisterResult struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type UploadResult struct {
	Key    string `json:"key"`
	Format string `json:"format"`
}

type PipelineStatus struct {
	BacklogSize int `json:"backlog_size"`
	WorkerCount int `json:"worker_count"`
}

type HealthResponse struct {
	Status   string         `json:"status"`
	Pipeline PipelineStatus `json:"pipeline"`
}
