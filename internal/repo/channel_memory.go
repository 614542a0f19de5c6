package repo

import (
	"sync"

	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/models"
)

// InMemoryChannelRepository is an in-memory implementation of ChannelRepository.
type InMemoryChannelRepository struct {
	mu       sync.Mutex
	channels []models.Channel
	nextID   int
}

func NewInMemoryChannelRepository() *InMemoryChannelRepository {
	return &InMemoryChannelRepository{nextID: 1}
}

func (r *InMemoryChannelRepository) Create(c models.Channel) (models.Channel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.channels {
		if existing.Username == c.Username {
			return models.Channel{}, ErrDuplicatedValueUnique
		}
	}
	c.ID = r.nextID
	r.nextID++
	r.channels = append(r.channels, c)
	return c, nil
}

func (r *InMemoryChannelRepository) GetAll() ([]models.Channel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Channel, len(r.channels))
	copy(out, r.channels)
	return out, nil
}

func (r *InMemoryChannelRepository) GetByID(id int) (models.Channel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.channels {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Channel{}, ErrChannelNotFound
}

func (r *InMemoryChannelRepository) GetByUsername(username string) (models.Channel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.channels {
		if c.Username == username {
			return c, nil
		}
	}
	return models.Channel{}, ErrChannelNotFound
}

func (r *InMemoryChannelRepository) Update(c models.Channel) (models.Channel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.channels {
		if existing.ID == c.ID {
			r.channels[i] = c
			return c, nil
		}
	}
	return models.Channel{}, ErrChannelNotFound
}

func (r *InMemoryChannelRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.channels {
		if c.ID == id {
			r.channels = append(r.channels[:i], r.channels[i+1:]...)
			return nil
		}
	}
	return ErrChannelNotFound
}

func (r *InMemoryChannelRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.channels = nil
	r.nextID = 1
}
