package handlers_test_suite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/auth"
	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/export"
	api "github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/http"
	handler "github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/http/handlers"
	rl "github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/http/rate_limiter"
	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/models"
	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/ner"
	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/repo"
)

var (
	token       string
	channelRepo *repo.InMemoryChannelRepository
	messageRepo *repo.InMemoryMessageRepository
	entityRepo  *repo.InMemoryEntityRepository
)

func init() {
	// Generous limits so sequential test requests never trip the limiter.
	rl.Configure(10000, 10000)

	setupTestRepos("secret")
	r := api.NewRouter()

	var err error
	token, err = generateToken(r, "admin", "secret")
	if err != nil {
		panic(fmt.Sprintf("error generating token: %v", err))
	}
}

func setupTestRepos(password string) {
	channelRepo = repo.NewInMemoryChannelRepository()
	handler.SetChannelRepo(channelRepo)

	messageRepo = repo.NewInMemoryMessageRepository()
	handler.SetMessageRepo(messageRepo)

	entityRepo = repo.NewInMemoryEntityRepository()
	entityRepo.SetMessageRepository(messageRepo)
	handler.SetEntityRepo(entityRepo)

	userRepo := repo.NewInMemoryUserRepository()
	handler.SetUserRepo(userRepo)

	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	userRepo.CreateUser(models.User{
		Username:     "admin",
		PasswordHash: string(hash),
		Role:         "admin",
	})

	analyticsRepo := repo.NewInMemoryAnalyticsRepository()
	analyticsRepo.SetRepositories(channelRepo, messageRepo, entityRepo)
	handler.SetAnalyticsRepo(analyticsRepo)

	handler.SetRefreshStore(auth.NewMemoryRefreshStore())
	handler.SetDatasetBuilder(export.NewBuilder(messageRepo, ner.NewLabeler(nil, nil)))
}

func clearAllChannels() {
	channelRepo.Clear()
}

func clearAllMessages() {
	messageRepo.Clear()
	entityRepo.Clear()
}

func generateToken(r http.Handler, username, password string) (string, error) {
	payload := handler.CredentialsRequest{Username: username, Password: password}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp handler.LoginResult
	err := json.NewDecoder(w.Body).Decode(&resp)
	if err != nil {
		return "", fmt.Errorf("token decoding failed: %v", err)
	}
	return resp.Token, nil
}

func createChannel(r http.Handler, c handler.ChannelRequest) *httptest.ResponseRecorder {
	body, _ := json.Marshal(c)
	req := httptest.NewRequest(http.MethodPost, "/channels", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func ingestMessage(r http.Handler, in handler.IngestRequest) *httptest.ResponseRecorder {
	body, _ := json.Marshal(in)
	req := httptest.NewRequest(http.MethodPost, "/ingest", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func seedMessage(channelID int, telegramID int64, text string, views int, postedAt time.Time, status string) models.Message {
	m, err := messageRepo.Create(models.Message{
		ChannelID:  channelID,
		TelegramID: telegramID,
		Text:       text,
		Views:      views,
		PostedAt:   postedAt,
		Status:     status,
	})
	if err != nil {
		panic(fmt.Sprintf("error seeding message: %v", err))
	}
	return m
}

func seedEntities(messageID int, entities []models.Entity) []models.Entity {
	stored, err := entityRepo.ReplaceForMessage(messageID, entities)
	if err != nil {
		panic(fmt.Sprintf("error seeding entities: %v", err))
	}
	return stored
}
