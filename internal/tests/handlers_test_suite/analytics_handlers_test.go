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
	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/repo"
)

func TestGetVendorScorecardHandler(t *testing.T) {
	t.Cleanup(clearAllChannels)
	t.Cleanup(clearAllMessages)
	r := api.NewRouter()

	w := createChannel(r, handler.ChannelRequest{Username: "shegeronlinestore", Title: "Sheger Online Store", VendorName: "Sheger"})
	var ch handler.ChannelResponse
	if err := json.NewDecoder(w.Body).Decode(&ch); err != nil {
		t.Fatalf("error decoding channel: %v", err)
	}

	now := time.Now().UTC()
	m1 := seedMessage(ch.Id, 1, "ጫማ ዋጋ 1000 ብር", 100, now.Add(-7*24*time.Hour), models.MessageStatusProcessed)
	m2 := seedMessage(ch.Id, 2, "ጫማ ዋጋ 2000 ብር", 300, now, models.MessageStatusProcessed)

	a1, a2 := 1000.0, 2000.0
	seedEntities(m1.ID, []models.Entity{
		{Type: models.EntityTypeProduct, Value: "ጫማ", NormalizedValue: "ጫማ", Source: models.EntitySourceLLM, Confidence: 0.9},
		{Type: models.EntityTypePrice, Value: "1000 ብር", NormalizedValue: "1000 ብር", AmountETB: &a1, Source: models.EntitySourceRules, Confidence: 0.6},
	})
	seedEntities(m2.ID, []models.Entity{
		{Type: models.EntityTypeProduct, Value: "ጫማ", NormalizedValue: "ጫማ", Source: models.EntitySourceLLM, Confidence: 0.9},
		{Type: models.EntityTypePrice, Value: "2000 ብር", NormalizedValue: "2000 ብር", AmountETB: &a2, Source: models.EntitySourceRules, Confidence: 0.6},
	})

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/analytics/scorecards/%d", ch.Id), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", rec.Code)
	}

	var card repo.VendorScorecard
	if err := json.NewDecoder(rec.Body).Decode(&card); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}

	if card.PostCount != 2 {
		t.Errorf("expected 2 posts, got %d", card.PostCount)
	}
	if card.AvgViews != 200 {
		t.Errorf("expected avg views 200, got %v", card.AvgViews)
	}
	if card.AvgPriceETB != 1500 {
		t.Errorf("expected avg price 1500, got %v", card.AvgPriceETB)
	}
	if card.TopProduct != "ጫማ" {
		t.Errorf("expected top product ጫማ, got %q", card.TopProduct)
	}
	want := repo.LendingScore(card.AvgViews, card.PostsPerWeek)
	if card.LendingScore != want {
		t.Errorf("expected lending score %v, got %v", want, card.LendingScore)
	}
}

func TestGetVendorScorecardHandler_NotFound(t *testing.T) {
	r := api.NewRouter()

	req := httptest.NewRequest(http.MethodGet, "/analytics/scorecards/31337", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 Not Found, got %d", rec.Code)
	}
}

func TestGetVendorScorecardsHandler(t *testing.T) {
	t.Cleanup(clearAllChannels)
	t.Cleanup(clearAllMessages)
	r := api.NewRouter()

	createChannel(r, handler.ChannelRequest{Username: "helloomarket", Title: "Helloo Market"})
	createChannel(r, handler.ChannelRequest{Username: "qnashcom", Title: "Qnash"})

	req := httptest.NewRequest(http.MethodGet, "/analytics/scorecards", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", rec.Code)
	}

	var cards []repo.VendorScorecard
	if err := json.NewDecoder(rec.Body).Decode(&cards); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if len(cards) != 2 {
		t.Errorf("expected 2 scorecards, got %d", len(cards))
	}
}

func TestGetDashboardMetricsHandler(t *testing.T) {
	t.Cleanup(clearAllChannels)
	t.Cleanup(clearAllMessages)
	r := api.NewRouter()

	w := createChannel(r, handler.ChannelRequest{Username: "aradabrand", Title: "Arada Brand"})
	var ch handler.ChannelResponse
	if err := json.NewDecoder(w.Body).Decode(&ch); err != nil {
		t.Fatalf("error decoding channel: %v", err)
	}

	now := time.Now().UTC()
	m1 := seedMessage(ch.Id, 1, "ሽቶ ዋጋ 4500 ብር ቦሌ", 10, now, models.MessageStatusProcessed)
	seedMessage(ch.Id, 2, "በመሸጥ ላይ", 5, now, models.MessageStatusPending)

	amount := 4500.0
	seedEntities(m1.ID, []models.Entity{
		{Type: models.EntityTypePrice, Value: "4500 ብር", NormalizedValue: "4500 ብር", AmountETB: &amount, Source: models.EntitySourceRules, Confidence: 0.6},
		{Type: models.EntityTypeLocation, Value: "ቦሌ", NormalizedValue: "ቦሌ", Source: models.EntitySourceRules, Confidence: 0.6},
	})

	req := httptest.NewRequest(http.MethodGet, "/analytics/metrics", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", rec.Code)
	}

	var m repo.Metrics
	if err := json.NewDecoder(rec.Body).Decode(&m); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}

	if m.TotalChannels != 1 {
		t.Errorf("expected 1 channel, got %d", m.TotalChannels)
	}
	if m.TotalMessages != 2 {
		t.Errorf("expected 2 messages, got %d", m.TotalMessages)
	}
	if m.MessagesByStatus[models.MessageStatusPending] != 1 {
		t.Errorf("expected 1 pending message, got %d", m.MessagesByStatus[models.MessageStatusPending])
	}
	if m.TotalEntities != 2 {
		t.Errorf("expected 2 entities, got %d", m.TotalEntities)
	}
	if m.EntitiesByType[models.EntityTypeLocation] != 1 {
		t.Errorf("expected 1 LOC entity, got %d", m.EntitiesByType[models.EntityTypeLocation])
	}
	if m.AvgPriceETB != 4500 {
		t.Errorf("expected avg price 4500, got %v", m.AvgPriceETB)
	}
	if m.DistinctLocations != 1 {
		t.Errorf("expected 1 distinct location, got %d", m.DistinctLocations)
	}
}
