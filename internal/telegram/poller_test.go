package telegram

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/models"
	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/repo"
)

type fakeDeduper struct {
	seen map[string]bool
}

func (d *fakeDeduper) MarkSeen(channel string, telegramID int64, _ time.Duration) (bool, error) {
	key := channel + "/" + time.Unix(telegramID, 0).String()
	if d.seen[key] {
		return false, nil
	}
	if d.seen == nil {
		d.seen = map[string]bool{}
	}
	d.seen[key] = true
	return true, nil
}

type fakeEnqueuer struct {
	ids []int
}

func (e *fakeEnqueuer) Enqueue(id int) bool {
	e.ids = append(e.ids, id)
	return true
}

func newTestPoller(messages repo.MessageRepository, channels repo.ChannelRepository, enq Enqueuer) *Poller {
	return NewPoller(nil, []string{"@shegashop"}, messages, channels, &fakeDeduper{}, enq,
		30*time.Second, time.Hour, zap.NewNop())
}

func TestHandleUpdatePersistsAndEnqueues(t *testing.T) {
	messages := repo.NewInMemoryMessageRepository()
	channels := repo.NewInMemoryChannelRepository()
	enq := &fakeEnqueuer{}
	p := newTestPoller(messages, channels, enq)

	err := p.handleUpdate(Update{UpdateID: 1, ChannelPost: &Message{
		MessageID: 10,
		Chat:      Chat{Username: "shegashop", Title: "Shega Shop", Type: "channel"},
		Date:      1700000000,
		Text:      "ዋጋ፡ 800 ብር",
		Views:     55,
	}})
	require.NoError(t, err)

	// Channel auto-registered.
	ch, err := channels.GetByUsername("shegashop")
	require.NoError(t, err)
	assert.Equal(t, "Shega Shop", ch.Title)
	assert.True(t, ch.Active)

	msg, err := messages.GetByTelegramID(ch.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, models.MessageStatusPending, msg.Status)
	assert.Equal(t, "ዋጋ 800 ብር", msg.NormalizedText)
	assert.Equal(t, []int{msg.ID}, enq.ids)
}

func TestHandleUpdateSkipsUnwatchedChannel(t *testing.T) {
	messages := repo.NewInMemoryMessageRepository()
	channels := repo.NewInMemoryChannelRepository()
	enq := &fakeEnqueuer{}
	p := newTestPoller(messages, channels, enq)

	err := p.handleUpdate(Update{UpdateID: 1, ChannelPost: &Message{
		MessageID: 11,
		Chat:      Chat{Username: "othershop"},
		Text:      "ዋጋ 100 ብር",
	}})
	require.NoError(t, err)
	assert.Empty(t, enq.ids)

	counts, _ := messages.CountByStatus()
	assert.Empty(t, counts)
}

func TestHandleUpdateSkipsEmptyText(t *testing.T) {
	messages := repo.NewInMemoryMessageRepository()
	channels := repo.NewInMemoryChannelRepository()
	enq := &fakeEnqueuer{}
	p := newTestPoller(messages, channels, enq)

	err := p.handleUpdate(Update{UpdateID: 2, ChannelPost: &Message{
		MessageID: 12,
		Chat:      Chat{Username: "shegashop"},
		Text:      "   ",
	}})
	require.NoError(t, err)
	assert.Empty(t, enq.ids)
}

func TestHandleUpdateDuplicateTelegramID(t *testing.T) {
	messages := repo.NewInMemoryMessageRepository()
	channels := repo.NewInMemoryChannelRepository()
	enq := &fakeEnqueuer{}
	p := newTestPoller(messages, channels, enq)

	post := &Message{
		MessageID: 13,
		Chat:      Chat{Username: "shegashop", Title: "Shega Shop"},
		Text:      "አዲስ ምርት",
	}
	require.NoError(t, p.handleUpdate(Update{UpdateID: 3, ChannelPost: post}))

	// Fresh deduper misses, but the unique constraint still protects us.
	p.dedup = &fakeDeduper{}
	require.NoError(t, p.handleUpdate(Update{UpdateID: 4, ChannelPost: post}))

	counts, _ := messages.CountByStatus()
	assert.Equal(t, 1, counts[models.MessageStatusPending])
	assert.Len(t, enq.ids, 1)
}
