package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/amharic"
	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/extractor"
	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/models"
	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/repo"
)

// Processor runs the full extraction for one message: normalize, rule
// labeling, optional LLM extraction, merge, persist.
type Processor struct {
	messages    repo.MessageRepository
	entities    repo.EntityRepository
	rules       extractor.Client
	llm         extractor.Client // nil when no API key is configured
	maxAttempts int              // zero means unlimited
	log         *zap.Logger
}

func NewProcessor(
	messages repo.MessageRepository,
	entities repo.EntityRepository,
	rules extractor.Client,
	llm extractor.Client,
	maxAttempts int,
	log *zap.Logger,
) *Processor {
	return &Processor{
		messages:    messages,
		entities:    entities,
		rules:       rules,
		llm:         llm,
		maxAttempts: maxAttempts,
		log:         log,
	}
}

// Process extracts and stores entities for the message. On failure the
// message is marked failed with its attempt count bumped, ready for
// reprocessing; the message row itself is never lost.
func (p *Processor) Process(ctx context.Context, messageID int) error {
	msg, err := p.messages.GetByID(messageID)
	if err != nil {
		return fmt.Errorf("failed to load message %d: %w", messageID, err)
	}

	// A failed message that already burned its retry budget stays failed
	// until an operator resets it to pending via the reprocess endpoint.
	if p.maxAttempts > 0 && msg.Status == models.MessageStatusFailed && msg.Attempts >= p.maxAttempts {
		p.log.Warn("retry budget exhausted, leaving message failed",
			zap.Int("message_id", messageID), zap.Int("attempts", msg.Attempts))
		return fmt.Errorf("message %d exhausted %d extraction attempts", messageID, msg.Attempts)
	}

	entities, normalized, err := p.extract(ctx, msg)
	if err != nil {
		attempts, markErr := p.messages.MarkFailed(messageID)
		if markErr != nil {
			p.log.Error("failed to mark message failed", zap.Int("message_id", messageID), zap.Error(markErr))
		}
		p.log.Warn("extraction failed",
			zap.Int("message_id", messageID), zap.Int("attempts", attempts), zap.Error(err))
		return err
	}

	if _, err := p.entities.ReplaceForMessage(messageID, entities); err != nil {
		if _, markErr := p.messages.MarkFailed(messageID); markErr != nil {
			p.log.Error("failed to mark message failed", zap.Int("message_id", messageID), zap.Error(markErr))
		}
		return fmt.Errorf("failed to store entities for message %d: %w", messageID, err)
	}

	if err := p.messages.MarkProcessed(messageID, normalized); err != nil {
		return fmt.Errorf("failed to mark message %d processed: %w", messageID, err)
	}

	p.log.Info("message processed",
		zap.Int("message_id", messageID), zap.Int("entities", len(entities)))
	return nil
}

func (p *Processor) extract(ctx context.Context, msg models.Message) ([]models.Entity, string, error) {
	normalized := amharic.Normalize(msg.Text)

	ruleEntities, err := p.rules.Extract(ctx, msg.Text)
	if err != nil {
		return nil, "", fmt.Errorf("rule extraction: %w", err)
	}

	if p.llm == nil {
		return ruleEntities, normalized, nil
	}

	llmEntities, err := p.llm.Extract(ctx, msg.Text)
	if err != nil {
		// The LLM is best effort; rule output still counts as processed.
		p.log.Warn("llm extraction failed, keeping rule entities",
			zap.Int("message_id", msg.ID), zap.Error(err))
		return ruleEntities, normalized, nil
	}

	return extractor.Merge(llmEntities, ruleEntities), normalized, nil
}
