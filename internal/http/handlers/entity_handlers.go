package handlers

import (
	"log"
	"net/http"

	models "github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/models"
	repo "github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/repo"
)

func entityResponse(e models.Entity) EntityResponse {
	return EntityResponse{
		Id:              e.ID,
		MessageId:       e.MessageID,
		Type:            e.Type,
		Value:           e.Value,
		NormalizedValue: e.NormalizedValue,
		AmountETB:       e.AmountETB,
		Source:          e.Source,
		Confidence:      e.Confidence,
		TokenStart:      e.TokenStart,
		TokenEnd:        e.TokenEnd,
	}
}

// FilterEntitiesHandler godoc
// @Summary Filter and paginate extracted entities
// @Tags entities
// @Produce json
// @Param type query string false "Entity type (PRODUCT, PRICE, LOC, PHONE, LINK)"
// @Param channelId query int false "Filter by channel ID"
// @Param messageId query int false "Filter by message ID"
// @Param minConfidence query number false "Minimum confidence"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} EntitiesSearchResult
// @Failure 400 {string} string "Invalid query"
// @Failure 500 {string} string "Internal error"
// @Router /entities [get]
func FilterEntitiesHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := repo.EntityFilter{
		Type:          q.Get("type"),
		ChannelID:     parseIntPtr(q.Get("channelId")),
		MessageID:     parseIntPtr(q.Get("messageId")),
		MinConfidence: parseFloatPtr(q.Get("minConfidence")),
		Offset:        parseIntPtr(q.Get("offset")),
		Limit:         parseIntPtr(q.Get("limit")),
	}

	if filter.Limit != nil && *filter.Limit <= 0 {
		http.Error(w, "limit must be greater than zero", http.StatusBadRequest)
		return
	}
	if filter.Offset != nil && *filter.Offset < 0 {
		http.Error(w, "offset must be zero or positive", http.StatusBadRequest)
		return
	}

	entities, total, err := entityRepo.Filter(filter)
	if err != nil {
		http.Error(w, "could not filter entities", http.StatusInternalServerError)
		return
	}

	resp := EntitiesSearchResult{
		Data: make([]EntityResponse, len(entities)),
		Meta: Meta{TotalCount: total},
	}
	for i, e := range entities {
		resp.Data[i] = entityResponse(e)
	}

	err = writeJSON(w, http.StatusOK, resp)
	if err != nil {
		log.Printf("Failed to write JSON response: %v", err)
	}
}
