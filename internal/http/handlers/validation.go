package handlers

import (
	"strings"
	"time"
)

type ValidationError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

func validateChannel(c ChannelRequest) []ValidationError {
	errs := []ValidationError{}
	if strings.TrimSpace(c.Username) == "" {
		errs = append(errs, ValidationError{Field: "Username", Description: "Username is required"})
	}
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, ValidationError{Field: "Title", Description: "Title is required"})
	}
	return errs
}

func validateIngest(in IngestRequest) []ValidationError {
	errs := []ValidationError{}
	if strings.TrimSpace(in.ChannelUsername) == "" {
		errs = append(errs, ValidationError{Field: "ChannelUsername", Description: "ChannelUsername is required"})
	}
	if in.TelegramId <= 0 {
		errs = append(errs, ValidationError{Field: "TelegramId", Description: "TelegramId must be greater than zero"})
	}
	if strings.TrimSpace(in.Text) == "" {
		errs = append(errs, ValidationError{Field: "Text", Description: "Text is required"})
	}
	if in.PostedAt != "" {
		if _, err := time.Parse(time.RFC3339, in.PostedAt); err != nil {
			errs = append(errs, ValidationError{Field: "PostedAt", Description: "PostedAt must be a valid RFC3339 timestamp"})
		}
	}
	return errs
}
