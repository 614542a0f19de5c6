package handlers_test_suite

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	api "github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/http"
	handler "github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/http/handlers"
	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/models"
)

func TestIngestMessageHandler_Valid(t *testing.T) {
	t.Cleanup(clearAllChannels)
	t.Cleanup(clearAllMessages)
	r := api.NewRouter()

	createChannel(r, handler.ChannelRequest{Username: "shegeronlinestore", Title: "Sheger Online Store"})

	w := ingestMessage(r, handler.IngestRequest{
		ChannelUsername: "@shegeronlinestore",
		TelegramId:      101,
		Text:            "ስልክ ዋጋ 2500 ብር አዲስ አበባ",
		Views:           120,
	})

	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202 Accepted, got %d: %s", w.Code, w.Body.String())
	}

	var resp handler.IngestResult
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if resp.MessageId == 0 {
		t.Error("expected a message id to be assigned")
	}
	if resp.Status != models.MessageStatusPending {
		t.Errorf("expected status pending, got %q", resp.Status)
	}

	stored, err := messageRepo.GetByID(resp.MessageId)
	if err != nil {
		t.Fatalf("message not stored: %v", err)
	}
	if stored.NormalizedText == "" {
		t.Error("expected normalized text to be populated on ingest")
	}
}

func TestIngestMessageHandler_Duplicate(t *testing.T) {
	t.Cleanup(clearAllChannels)
	t.Cleanup(clearAllMessages)
	r := api.NewRouter()

	createChannel(r, handler.ChannelRequest{Username: "helloomarket", Title: "Helloo Market"})

	in := handler.IngestRequest{ChannelUsername: "helloomarket", TelegramId: 55, Text: "ጫማ ዋጋ 1200 ብር"}
	if w := ingestMessage(r, in); w.Code != http.StatusAccepted {
		t.Fatalf("expected 202 on first ingest, got %d", w.Code)
	}
	if w := ingestMessage(r, in); w.Code != http.StatusConflict {
		t.Errorf("expected 409 on duplicate ingest, got %d", w.Code)
	}
}

func TestIngestMessageHandler_UnknownChannel(t *testing.T) {
	t.Cleanup(clearAllMessages)
	r := api.NewRouter()

	w := ingestMessage(r, handler.IngestRequest{ChannelUsername: "nosuchchannel", TelegramId: 1, Text: "ሻንጣ"})
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown channel, got %d", w.Code)
	}
}

func TestIngestMessageHandler_Invalid(t *testing.T) {
	r := api.NewRouter()

	w := ingestMessage(r, handler.IngestRequest{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	var resp []handler.ValidationError
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if len(resp) != 3 {
		t.Errorf("expected 3 validation errors, got %d", len(resp))
	}
}

func TestFilterMessagesHandler(t *testing.T) {
	t.Cleanup(clearAllChannels)
	t.Cleanup(clearAllMessages)
	r := api.NewRouter()

	w := createChannel(r, handler.ChannelRequest{Username: "qnashcom", Title: "Qnash"})
	var ch handler.ChannelResponse
	if err := json.NewDecoder(w.Body).Decode(&ch); err != nil {
		t.Fatalf("error decoding channel: %v", err)
	}

	now := time.Now().UTC()
	seedMessage(ch.Id, 1, "ቦርሳ ዋጋ 800 ብር", 50, now.Add(-48*time.Hour), models.MessageStatusProcessed)
	seedMessage(ch.Id, 2, "ጫማ ዋጋ 1500 ብር", 80, now.Add(-24*time.Hour), models.MessageStatusProcessed)
	seedMessage(ch.Id, 3, "ሰዓት ዋጋ 3000 ብር", 200, now, models.MessageStatusPending)

	tests := []struct {
		name      string
		query     string
		wantTotal int
	}{
		{"all", "", 3},
		{"by status", "?status=processed", 2},
		{"by channel", fmt.Sprintf("?channelId=%d", ch.Id), 3},
		{"by text", "?text=ጫማ", 1},
		{"since yesterday", "?since=" + now.Add(-30*time.Hour).Format(time.RFC3339), 2},
		{"paginated", "?limit=2", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/messages"+tt.query, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("expected 200 OK, got %d", w.Code)
			}

			var resp handler.MessagesSearchResult
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("error decoding response: %v", err)
			}
			if resp.Meta.TotalCount != tt.wantTotal {
				t.Errorf("expected total %d, got %d", tt.wantTotal, resp.Meta.TotalCount)
			}
		})
	}
}

func TestFilterMessagesHandler_InvalidPagination(t *testing.T) {
	r := api.NewRouter()

	req := httptest.NewRequest(http.MethodGet, "/messages?limit=0", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for zero limit, got %d", w.Code)
	}
}

func TestGetMessageByIDHandler_WithEntities(t *testing.T) {
	t.Cleanup(clearAllChannels)
	t.Cleanup(clearAllMessages)
	r := api.NewRouter()

	w := createChannel(r, handler.ChannelRequest{Username: "aradabrand", Title: "Arada Brand"})
	var ch handler.ChannelResponse
	if err := json.NewDecoder(w.Body).Decode(&ch); err != nil {
		t.Fatalf("error decoding channel: %v", err)
	}

	msg := seedMessage(ch.Id, 10, "ቡልጋሪ ሽቶ ዋጋ 4500 ብር", 300, time.Now().UTC(), models.MessageStatusProcessed)
	amount := 4500.0
	seedEntities(msg.ID, []models.Entity{
		{Type: models.EntityTypePrice, Value: "4500 ብር", NormalizedValue: "4500 ብር", AmountETB: &amount, Source: models.EntitySourceRules, Confidence: 0.6},
		{Type: models.EntityTypeLocation, Value: "ቡልጋሪ", NormalizedValue: "ቡልጋሪ", Source: models.EntitySourceRules, Confidence: 0.6},
	})

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/messages/%d", msg.ID), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", rec.Code)
	}

	var resp handler.MessageDetailResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if len(resp.Entities) != 2 {
		t.Fatalf("expected 2 entities, got %d", len(resp.Entities))
	}
	if resp.Entities[0].Type != models.EntityTypePrice {
		t.Errorf("expected first entity PRICE, got %q", resp.Entities[0].Type)
	}
	if resp.Entities[0].AmountETB == nil || *resp.Entities[0].AmountETB != 4500 {
		t.Error("expected price amount 4500 ETB")
	}
}

func TestReprocessMessageHandler(t *testing.T) {
	t.Cleanup(clearAllChannels)
	t.Cleanup(clearAllMessages)
	r := api.NewRouter()

	w := createChannel(r, handler.ChannelRequest{Username: "modernshoppingcenter", Title: "Modern Shopping Center"})
	var ch handler.ChannelResponse
	if err := json.NewDecoder(w.Body).Decode(&ch); err != nil {
		t.Fatalf("error decoding channel: %v", err)
	}

	msg := seedMessage(ch.Id, 77, "ላፕቶፕ ዋጋ 52000 ብር", 90, time.Now().UTC(), models.MessageStatusFailed)

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/messages/%d/reprocess", msg.ID), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202 Accepted, got %d", rec.Code)
	}

	stored, err := messageRepo.GetByID(msg.ID)
	if err != nil {
		t.Fatalf("message lost: %v", err)
	}
	if stored.Status != models.MessageStatusPending {
		t.Errorf("expected status reset to pending, got %q", stored.Status)
	}
}

func TestReprocessMessageHandler_NotFound(t *testing.T) {
	r := api.NewRouter()

	req := httptest.NewRequest(http.MethodPost, "/messages/424242/reprocess", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 Not Found, got %d", rec.Code)
	}
}
