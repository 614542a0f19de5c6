package models

import "time"

// Entity types recognized by the extraction pipeline.
const (
	EntityTypeProduct  = "PRODUCT"
	EntityTypePrice    = "PRICE"
	EntityTypeLocation = "LOC"
	EntityTypePhone    = "PHONE"
	EntityTypeLink     = "LINK"
)

// Entity extraction sources.
const (
	EntitySourceLLM   = "llm"
	EntitySourceRules = "rules"
)

// Entity is a business entity extracted from one message.
// TokenStart/TokenEnd are indexes into the normalized token stream;
// -1 when the source cannot provide offsets (LLM spans).
type Entity struct {
	ID              int       `json:"id"`
	MessageID       int       `json:"message_id"`
	Type            string    `json:"type"`
	Value           string    `json:"value"`
	NormalizedValue string    `json:"normalized_value"`
	AmountETB       *float64  `json:"amount_etb,omitempty"`
	Source          string    `json:"source"`
	Confidence      float64   `json:"confidence"`
	TokenStart      int       `json:"token_start"`
	TokenEnd        int       `json:"token_end"`
	CreatedAt       time.Time `json:"created_at"`
}
