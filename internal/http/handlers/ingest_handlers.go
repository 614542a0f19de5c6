package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/amharic"
	models "github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/models"
	repo "github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/repo"
)

// IngestMessageHandler godoc
// @Summary Submit a channel post directly, bypassing the Telegram poller
// @Tags ingest
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param message body IngestRequest true "Message to ingest"
// @Success 202 {object} IngestResult
// @Failure 400 {object} map[string]any
// @Failure 404 {string} string "Channel not found"
// @Failure 409 {string} string "Duplicate message"
// @Failure 500 {string} string "Internal error"
// @Router /ingest [post]
func IngestMessageHandler(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	validationErrors := validateIngest(req)
	if len(validationErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, validationErrors)
		return
	}

	channel, err := channelRepo.GetByUsername(strings.TrimPrefix(req.ChannelUsername, "@"))
	if err != nil {
		if err == repo.ErrChannelNotFound {
			http.Error(w, "channel not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch channel", http.StatusInternalServerError)
		return
	}

	postedAt := time.Now()
	if req.PostedAt != "" {
		postedAt, _ = time.Parse(time.RFC3339, req.PostedAt)
	}

	message := models.Message{
		ChannelID:      channel.ID,
		TelegramID:     req.TelegramId,
		Text:           req.Text,
		NormalizedText: amharic.Normalize(req.Text),
		Views:          req.Views,
		PostedAt:       postedAt,
		Status:         models.MessageStatusPending,
	}

	created, err := messageRepo.Create(message)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			http.Error(w, "message already ingested", http.StatusConflict)
			return
		}
		http.Error(w, "could not store message", http.StatusInternalServerError)
		return
	}

	enqueued := false
	if pipeline != nil {
		enqueued = pipeline.Enqueue(created.ID)
	}

	writeJSON(w, http.StatusAccepted, IngestResult{
		MessageId: created.ID,
		Status:    created.Status,
		Enqueued:  enqueued,
	})
}
