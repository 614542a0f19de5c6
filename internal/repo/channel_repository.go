package repo

import "github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/models"

// ChannelRepository defines the interface for channel data operations.
type ChannelRepository interface {
	Create(channel models.Channel) (models.Channel, error)
	GetAll() ([]models.Channel, error)
	GetByID(id int) (models.Channel, error)
	GetByUsername(username string) (models.Channel, error)
	Update(channel models.Channel) (models.Channel, error)
	Delete(id int) error
}
