package repo

import (
	"time"

	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/models"
)

// MessageFilter narrows message queries; nil/empty fields are ignored.
type MessageFilter struct {
	ChannelID *int
	Status    string
	Since     *time.Time
	Until     *time.Time
	Text      string
	Offset    *int
	Limit     *int
}

// MessageRepository defines the interface for message data operations.
type MessageRepository interface {
	Create(message models.Message) (models.Message, error)
	GetByID(id int) (models.Message, error)
	GetByTelegramID(channelID int, telegramID int64) (models.Message, error)
	Filter(filter MessageFilter) ([]models.Message, int, error)
	ListByStatus(status string, limit int) ([]models.Message, error)
	SetStatus(id int, status string) error
	MarkProcessed(id int, normalizedText string) error
	MarkFailed(id int) (attempts int, err error)
	CountByStatus() (map[string]int, error)
}
