package telegram

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/amharic"
	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/models"
	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/repo"
)

const maxBackoff = time.Minute

// Deduper filters out already-ingested posts. Redis backs the production
// implementation.
type Deduper interface {
	MarkSeen(channel string, telegramID int64, ttl time.Duration) (bool, error)
}

// Enqueuer hands an ingested message id to the extraction pipeline.
type Enqueuer interface {
	Enqueue(messageID int) bool
}

// Poller long-polls the Bot API and persists posts from watched channels.
type Poller struct {
	client      *Client
	channels    map[string]struct{}
	messages    repo.MessageRepository
	channelRepo repo.ChannelRepository
	dedup       Deduper
	pipeline    Enqueuer
	log         *zap.Logger

	pollTimeout time.Duration
	dedupTTL    time.Duration
	offset      int64
}

// NewPoller builds a poller watching the given channel usernames.
func NewPoller(
	client *Client,
	channels []string,
	messages repo.MessageRepository,
	channelRepo repo.ChannelRepository,
	dedup Deduper,
	pipeline Enqueuer,
	pollTimeout, dedupTTL time.Duration,
	log *zap.Logger,
) *Poller {
	watched := make(map[string]struct{}, len(channels))
	for _, ch := range channels {
		watched[strings.TrimPrefix(ch, "@")] = struct{}{}
	}
	return &Poller{
		client:      client,
		channels:    watched,
		messages:    messages,
		channelRepo: channelRepo,
		dedup:       dedup,
		pipeline:    pipeline,
		log:         log,
		pollTimeout: pollTimeout,
		dedupTTL:    dedupTTL,
	}
}

// Run polls until the context is cancelled. API failures back off
// exponentially; persist failures stop the batch so the offset is not
// advanced past unsaved posts.
func (p *Poller) Run(ctx context.Context) {
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return
		}

		updates, err := p.client.GetUpdates(ctx, p.offset, p.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.log.Warn("telegram poll failed", zap.Error(err), zap.Duration("backoff", backoff))
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			continue
		}
		backoff = time.Second

		for _, u := range updates {
			if err := p.handleUpdate(u); err != nil {
				p.log.Error("failed to persist channel post",
					zap.Int64("update_id", u.UpdateID), zap.Error(err))
				// Do not advance past this update; retry next poll.
				break
			}
			p.offset = u.UpdateID + 1
		}
	}
}

func (p *Poller) handleUpdate(u Update) error {
	post := u.ChannelPost
	if post == nil {
		return nil
	}
	if _, watched := p.channels[post.Chat.Username]; !watched {
		return nil
	}
	text := post.Content()
	if strings.TrimSpace(text) == "" {
		return nil
	}

	fresh, err := p.dedup.MarkSeen(post.Chat.Username, post.MessageID, p.dedupTTL)
	if err != nil {
		p.log.Warn("dedup check failed, ingesting anyway", zap.Error(err))
	} else if !fresh {
		return nil
	}

	channel, err := p.ensureChannel(post.Chat)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	msg, err := p.messages.Create(models.Message{
		ChannelID:      channel.ID,
		TelegramID:     post.MessageID,
		Text:           text,
		NormalizedText: amharic.Normalize(text),
		Views:          post.Views,
		PostedAt:       post.PostedAt(),
		Status:         models.MessageStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err == repo.ErrDuplicatedValueUnique {
		return nil
	}
	if err != nil {
		return err
	}

	if !p.pipeline.Enqueue(msg.ID) {
		p.log.Warn("pipeline rejected message, left pending", zap.Int("message_id", msg.ID))
	}
	return nil
}

// ensureChannel resolves the channel row, registering it on first sight.
func (p *Poller) ensureChannel(chat Chat) (models.Channel, error) {
	channel, err := p.channelRepo.GetByUsername(chat.Username)
	if err == nil {
		return channel, nil
	}
	if err != repo.ErrChannelNotFound {
		return models.Channel{}, err
	}

	now := time.Now().UTC()
	created, err := p.channelRepo.Create(models.Channel{
		Username:   chat.Username,
		Title:      chat.Title,
		VendorName: chat.Title,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err == repo.ErrDuplicatedValueUnique {
		return p.channelRepo.GetByUsername(chat.Username)
	}
	return created, err
}
