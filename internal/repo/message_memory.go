package repo

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/models"
)

// InMemoryMessageRepository is an in-memory implementation of MessageRepository.
type InMemoryMessageRepository struct {
	mu       sync.Mutex
	messages []models.Message
	nextID   int
}

func NewInMemoryMessageRepository() *InMemoryMessageRepository {
	return &InMemoryMessageRepository{nextID: 1}
}

func (r *InMemoryMessageRepository) Create(m models.Message) (models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.messages {
		if existing.ChannelID == m.ChannelID && existing.TelegramID == m.TelegramID {
			return models.Message{}, ErrDuplicatedValueUnique
		}
	}
	m.ID = r.nextID
	r.nextID++
	r.messages = append(r.messages, m)
	return m, nil
}

func (r *InMemoryMessageRepository) GetByID(id int) (models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages {
		if m.ID == id {
			return m, nil
		}
	}
	return models.Message{}, ErrMessageNotFound
}

func (r *InMemoryMessageRepository) GetByTelegramID(channelID int, telegramID int64) (models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages {
		if m.ChannelID == channelID && m.TelegramID == telegramID {
			return m, nil
		}
	}
	return models.Message{}, ErrMessageNotFound
}

func matchesMessageFilter(m models.Message, f MessageFilter) bool {
	if f.ChannelID != nil && m.ChannelID != *f.ChannelID {
		return false
	}
	if f.Status != "" && m.Status != f.Status {
		return false
	}
	if f.Since != nil && m.PostedAt.Before(*f.Since) {
		return false
	}
	if f.Until != nil && m.PostedAt.After(*f.Until) {
		return false
	}
	if f.Text != "" {
		needle := strings.ToLower(f.Text)
		if !strings.Contains(strings.ToLower(m.Text), needle) &&
			!strings.Contains(strings.ToLower(m.NormalizedText), needle) {
			return false
		}
	}
	return true
}

func (r *InMemoryMessageRepository) Filter(f MessageFilter) ([]models.Message, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var filtered []models.Message
	for _, m := range r.messages {
		if matchesMessageFilter(m, f) {
			filtered = append(filtered, m)
		}
	}
	sort.Slice(filtered, func(i, j int) bool {
		if filtered[i].PostedAt.Equal(filtered[j].PostedAt) {
			return filtered[i].ID > filtered[j].ID
		}
		return filtered[i].PostedAt.After(filtered[j].PostedAt)
	})

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

func (r *InMemoryMessageRepository) ListByStatus(status string, limit int) ([]models.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Message
	for _, m := range r.messages {
		if m.Status == status {
			out = append(out, m)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (r *InMemoryMessageRepository) SetStatus(id int, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, m := range r.messages {
		if m.ID == id {
			r.messages[i].Status = status
			r.messages[i].UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return ErrMessageNotFound
}

func (r *InMemoryMessageRepository) MarkProcessed(id int, normalizedText string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, m := range r.messages {
		if m.ID == id {
			r.messages[i].Status = models.MessageStatusProcessed
			r.messages[i].NormalizedText = normalizedText
			r.messages[i].UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return ErrMessageNotFound
}

func (r *InMemoryMessageRepository) MarkFailed(id int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, m := range r.messages {
		if m.ID == id {
			r.messages[i].Status = models.MessageStatusFailed
			r.messages[i].Attempts++
			r.messages[i].UpdatedAt = time.Now().UTC()
			return r.messages[i].Attempts, nil
		}
	}
	return 0, ErrMessageNotFound
}

func (r *InMemoryMessageRepository) CountByStatus() (map[string]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[string]int{}
	for _, m := range r.messages {
		counts[m.Status]++
	}
	return counts, nil
}

func (r *InMemoryMessageRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = nil
	r.nextID = 1
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
