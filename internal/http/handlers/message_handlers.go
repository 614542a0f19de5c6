package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	models "github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/models"
	repo "github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/repo"
)

func messageResponse(m models.Message) MessageResponse {
	return MessageResponse{
		Id:             m.ID,
		ChannelId:      m.ChannelID,
		TelegramId:     m.TelegramID,
		Text:           m.Text,
		NormalizedText: m.NormalizedText,
		Views:          m.Views,
		PostedAt:       m.PostedAt,
		Status:         m.Status,
		Attempts:       m.Attempts,
	}
}

func parseIntPtr(s string) *int {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

func parseFloatPtr(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseTimePtr(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}

// FilterMessagesHandler godoc
// @Summary Filter and paginate ingested messages
// @Tags messages
// @Produce json
// @Param channelId query int false "Filter by channel ID"
// @Param status query string false "Filter by status (pending, processed, failed)"
// @Param since query string false "Posted at or after (RFC3339)"
// @Param until query string false "Posted at or before (RFC3339)"
// @Param text query string false "Substring match on normalized text"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} MessagesSearchResult
// @Failure 400 {string} string "Invalid query"
// @Failure 500 {string} string "Internal error"
// @Router /messages [get]
func FilterMessagesHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := repo.MessageFilter{
		ChannelID: parseIntPtr(q.Get("channelId")),
		Status:    q.Get("status"),
		Since:     parseTimePtr(q.Get("since")),
		Until:     parseTimePtr(q.Get("until")),
		Text:      q.Get("text"),
		Offset:    parseIntPtr(q.Get("offset")),
		Limit:     parseIntPtr(q.Get("limit")),
	}

	if filter.Limit != nil && *filter.Limit <= 0 {
		http.Error(w, "limit must be greater than zero", http.StatusBadRequest)
		return
	}
	if filter.Offset != nil && *filter.Offset < 0 {
		http.Error(w, "offset must be zero or positive", http.StatusBadRequest)
		return
	}

	messages, total, err := messageRepo.Filter(filter)
	if err != nil {
		http.Error(w, "could not filter messages", http.StatusInternalServerError)
		return
	}

	resp := MessagesSearchResult{
		Data: make([]MessageResponse, len(messages)),
		Meta: Meta{TotalCount: total},
	}
	for i, m := range messages {
		resp.Data[i] = messageResponse(m)
	}

	err = writeJSON(w, http.StatusOK, resp)
	if err != nil {
		log.Printf("Failed to write JSON response: %v", err)
	}
}

// GetMessageByIDHandler godoc
// @Summary Get a message with its extracted entities
// @Tags messages
// @Produce json
// @Param id path int true "Message ID"
// @Success 200 {object} MessageDetailResponse
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /messages/{id} [get]
func GetMessageByIDHandler(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "invalid message ID", http.StatusBadRequest)
		return
	}

	message, err := messageRepo.GetByID(id)
	if err != nil {
		if err == repo.ErrMessageNotFound {
			http.Error(w, "message not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch message", http.StatusInternalServerError)
		return
	}

	entities, err := entityRepo.GetByMessageID(id)
	if err != nil {
		http.Error(w, "could not fetch entities", http.StatusInternalServerError)
		return
	}

	resp := MessageDetailResponse{
		MessageResponse: messageResponse(message),
		Entities:        make([]EntityResponse, len(entities)),
	}
	for i, e := range entities {
		resp.Entities[i] = entityResponse(e)
	}

	err = writeJSON(w, http.StatusOK, resp)
	if err != nil {
		log.Printf("Failed to write JSON response: %v", err)
	}
}

// ReprocessMessageHandler godoc
// @Summary Re-queue a message for entity extraction
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Message ID"
// @Success 202 {object} ReprocessResult
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /messages/{id}/reprocess [post]
func ReprocessMessageHandler(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "invalid message ID", http.StatusBadRequest)
		return
	}

	if _, err := messageRepo.GetByID(id); err != nil {
		if err == repo.ErrMessageNotFound {
			http.Error(w, "message not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch message", http.StatusInternalServerError)
		return
	}

	if err := messageRepo.SetStatus(id, models.MessageStatusPending); err != nil {
		http.Error(w, "could not reset message status", http.StatusInternalServerError)
		return
	}

	enqueued := false
	if pipeline != nil {
		enqueued = pipeline.Enqueue(id)
	}

	err = writeJSON(w, http.StatusAccepted, ReprocessResult{
		MessageId: id,
		Status:    models.MessageStatusPending,
		Enqueued:  enqueued,
	})
	if err != nil {
		log.Printf("Failed to write JSON response: %v", err)
	}
}
