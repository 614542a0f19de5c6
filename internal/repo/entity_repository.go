package repo

import "github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/models"

// EntityFilter narrows entity queries; nil/empty fields are ignored.
type EntityFilter struct {
	Type          string
	ChannelID     *int
	MessageID     *int
	MinConfidence *float64
	Offset        *int
	Limit         *int
}

// EntityRepository defines the interface for extracted-entity data operations.
type EntityRepository interface {
	// ReplaceForMessage atomically swaps the entity set of a message.
	ReplaceForMessage(messageID int, entities []models.Entity) ([]models.Entity, error)
	GetByMessageID(messageID int) ([]models.Entity, error)
	Filter(filter EntityFilter) ([]models.Entity, int, error)
}
