package repo

import (
	"sort"
	"sync"
	"time"

	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/models"
)

// InMemoryEntityRepository is an in-memory implementation of EntityRepository.
type InMemoryEntityRepository struct {
	mu       sync.Mutex
	entities []models.Entity
	nextID   int

	// messages backs the channel filter, mirroring the SQL join.
	messages *InMemoryMessageRepository
}

func NewInMemoryEntityRepository() *InMemoryEntityRepository {
	return &InMemoryEntityRepository{nextID: 1}
}

// SetMessageRepository wires the message repo used for channel filtering.
func (r *InMemoryEntityRepository) SetMessageRepository(messages *InMemoryMessageRepository) {
	r.messages = messages
}

func (r *InMemoryEntityRepository) ReplaceForMessage(messageID int, entities []models.Entity) ([]models.Entity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.entities[:0]
	for _, e := range r.entities {
		if e.MessageID != messageID {
			kept = append(kept, e)
		}
	}
	r.entities = kept

	out := make([]models.Entity, 0, len(entities))
	for _, e := range entities {
		e.MessageID = messageID
		e.ID = r.nextID
		r.nextID++
		if e.CreatedAt.IsZero() {
			e.CreatedAt = time.Now().UTC()
		}
		r.entities = append(r.entities, e)
		out = append(out, e)
	}
	return out, nil
}

func (r *InMemoryEntityRepository) GetByMessageID(messageID int) ([]models.Entity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Entity
	for _, e := range r.entities {
		if e.MessageID == messageID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *InMemoryEntityRepository) Filter(f EntityFilter) ([]models.Entity, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var filtered []models.Entity
	for _, e := range r.entities {
		if f.Type != "" && e.Type != f.Type {
			continue
		}
		if f.MessageID != nil && e.MessageID != *f.MessageID {
			continue
		}
		if f.MinConfidence != nil && e.Confidence < *f.MinConfidence {
			continue
		}
		if f.ChannelID != nil {
			if r.messages == nil {
				continue
			}
			m, err := r.messages.GetByID(e.MessageID)
			if err != nil || m.ChannelID != *f.ChannelID {
				continue
			}
		}
		filtered = append(filtered, e)
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].ID > filtered[j].ID })

	total := len(filtered)
	start := 0
	if f.Offset != nil {
		start = clamp(*f.Offset, 0, total)
	}
	end := total
	if f.Limit != nil && *f.Limit > 0 {
		end = clamp(start+*f.Limit, start, total)
	}
	return filtered[start:end], total, nil
}

func (r *InMemoryEntityRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entities = nil
	r.nextID = 1
}
