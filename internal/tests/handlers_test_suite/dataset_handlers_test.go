package handlers_test_suite

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	api "github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/http"
	handler "github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/http/handlers"
	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/models"
)

func TestGetCoNLLDatasetHandler(t *testing.T) {
	t.Cleanup(clearAllChannels)
	t.Cleanup(clearAllMessages)
	r := api.NewRouter()

	w := createChannel(r, handler.ChannelRequest{Username: "shegeronlinestore", Title: "Sheger Online Store"})
	var ch handler.ChannelResponse
	if err := json.NewDecoder(w.Body).Decode(&ch); err != nil {
		t.Fatalf("error decoding channel: %v", err)
	}
	seedMessage(ch.Id, 1, "ጫማ ዋጋ 1500 ብር", 10, time.Now().UTC(), models.MessageStatusProcessed)
	// Pending messages stay out of the dataset.
	seedMessage(ch.Id, 2, "ቦርሳ ዋጋ 800 ብር", 10, time.Now().UTC(), models.MessageStatusPending)

	req := httptest.NewRequest(http.MethodGet, "/dataset/conll", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", rec.Code)
	}

	body := rec.Body.String()
	for _, line := range []string{"ጫማ O", "ዋጋ B-PRICE", "1500 I-PRICE", "ብር I-PRICE"} {
		if !strings.Contains(body, line) {
			t.Errorf("expected line %q in CoNLL output, got:\n%s", line, body)
		}
	}
	if strings.Contains(body, "ቦርሳ") {
		t.Error("pending message leaked into the dataset")
	}
}

func TestGetCSVDatasetHandler(t *testing.T) {
	t.Cleanup(clearAllChannels)
	t.Cleanup(clearAllMessages)
	r := api.NewRouter()

	w := createChannel(r, handler.ChannelRequest{Username: "helloomarket", Title: "Helloo Market"})
	var ch handler.ChannelResponse
	if err := json.NewDecoder(w.Body).Decode(&ch); err != nil {
		t.Fatalf("error decoding channel: %v", err)
	}
	msg := seedMessage(ch.Id, 3, "ሰዓት ዋጋ 3000 ብር", 10, time.Now().UTC(), models.MessageStatusProcessed)

	req := httptest.NewRequest(http.MethodGet, "/dataset/csv", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", rec.Code)
	}

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if lines[0] != "message_id,position,token,label" {
		t.Errorf("unexpected CSV header %q", lines[0])
	}
	// Header plus one row per token.
	if len(lines) != 5 {
		t.Fatalf("expected 5 CSV lines, got %d:\n%s", len(lines), rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "ዋጋ,B-PRICE") {
		t.Error("expected ዋጋ token labeled B-PRICE in CSV output")
	}
	_ = msg
}

func TestUploadDatasetHandler_NotConfigured(t *testing.T) {
	r := api.NewRouter()

	req := httptest.NewRequest(http.MethodPost, "/dataset/upload", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 when no upload target is configured, got %d", rec.Code)
	}
}

func TestDatasetHandlers_RequireAuth(t *testing.T) {
	r := api.NewRouter()

	req := httptest.NewRequest(http.MethodGet, "/dataset/conll", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", rec.Code)
	}
}
