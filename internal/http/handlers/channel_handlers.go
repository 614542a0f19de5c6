package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	models "github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/models"
	repo "github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/repo"
)

func channelResponse(c models.Channel) ChannelResponse {
	return ChannelResponse{
		Id:         c.ID,
		Username:   c.Username,
		Title:      c.Title,
		VendorName: c.VendorName,
		Active:     c.Active,
	}
}

// CreateChannelHandler godoc
// @Summary Register a Telegram channel for ingestion
// @Tags channels
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param channel body ChannelRequest true "Channel to register"
// @Success 201 {object} ChannelResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {string} string "Channel exists"
// @Router /channels [post]
func CreateChannelHandler(w http.ResponseWriter, r *http.Request) {
	var req ChannelRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	validationErrors := validateChannel(req)
	if len(validationErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, validationErrors)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	channel := models.Channel{
		Username:   strings.TrimPrefix(req.Username, "@"),
		Title:      req.Title,
		VendorName: req.VendorName,
		Active:     active,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	created, err := channelRepo.Create(channel)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			http.Error(w, "could not create channel: username duplicated", http.StatusConflict)
			return
		}
		http.Error(w, "could not create channel", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, channelResponse(created))
}

// GetChannelsHandler godoc
// @Summary List all registered channels
// @Tags channels
// @Produce json
// @Success 200 {array} ChannelResponse
// @Failure 500 {string} string "Internal error"
// @Router /channels [get]
func GetChannelsHandler(w http.ResponseWriter, r *http.Request) {
	channels, err := channelRepo.GetAll()
	if err != nil {
		http.Error(w, "could not fetch channels", http.StatusInternalServerError)
		return
	}
	response := make([]ChannelResponse, len(channels))
	for i, c := range channels {
		response[i] = channelResponse(c)
	}
	writeJSON(w, http.StatusOK, response)
}

// GetChannelByIDHandler godoc
// @Summary Get channel by ID
// @Tags channels
// @Produce json
// @Param id path int true "Channel ID"
// @Success 200 {object} ChannelResponse
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /channels/{id} [get]
func GetChannelByIDHandler(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "invalid channel ID", http.StatusBadRequest)
		return
	}

	channel, err := channelRepo.GetByID(id)
	if err != nil {
		if err == repo.ErrChannelNotFound {
			http.Error(w, "channel not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not fetch channel", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, channelResponse(channel))
}

// UpdateChannelHandler godoc
// @Summary Update a channel
// @Tags channels
// @Accept json
// @Produce json
// @Param id path int true "Channel ID"
// @Param channel body ChannelRequest true "Updated channel"
// @Success 200 {object} ChannelResponse
// @Failure 400 {object} map[string]any
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /channels/{id} [put]
// @Security BearerAuth
func UpdateChannelHandler(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "invalid channel ID", http.StatusBadRequest)
		return
	}

	var req ChannelRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	validationErrors := validateChannel(req)
	if len(validationErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, validationErrors)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	channel := models.Channel{
		ID:         id,
		Username:   strings.TrimPrefix(req.Username, "@"),
		Title:      req.Title,
		VendorName: req.VendorName,
		Active:     active,
		UpdatedAt:  time.Now(),
	}
	updated, err := channelRepo.Update(channel)
	if err != nil {
		if err == repo.ErrChannelNotFound {
			http.Error(w, "channel not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not update channel", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, channelResponse(updated))
}

// DeleteChannelHandler godoc
// @Summary Delete a channel
// @Tags channels
// @Param id path int true "Channel ID"
// @Success 204 "Deleted successfully"
// @Failure 400 {string} string "Invalid ID"
// @Failure 403 {string} string "Forbidden"
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal error"
// @Router /channels/{id} [delete]
// @Security BearerAuth
func DeleteChannelHandler(w http.ResponseWriter, r *http.Request) {
	role, err := GetRoleFromContext(r)
	if err != nil {
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	if role != "admin" {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	idStr := chi.URLParam(r, "id")
	if idStr == "" {
		http.Error(w, "channel ID is required", http.StatusBadRequest)
		return
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "invalid channel ID", http.StatusBadRequest)
		return
	}
	if err := channelRepo.Delete(id); err != nil {
		if err == repo.ErrChannelNotFound {
			http.Error(w, "channel not found", http.StatusNotFound)
			return
		}
		http.Error(w, "could not delete channel", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
