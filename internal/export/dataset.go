// Package export builds NER fine-tuning datasets from processed messages
// and pushes them to object storage.
package export

import (
	"bytes"
	"fmt"

	"github.com/gocarina/gocsv"

	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/amharic"
	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/models"
	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/ner"
	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/repo"
)

// exportBatchLimit caps how many processed messages one export covers.
const exportBatchLimit = 10000

// Builder labels processed messages and renders them as CoNLL or CSV.
type Builder struct {
	messages repo.MessageRepository
	labeler  *ner.Labeler
}

func NewBuilder(messages repo.MessageRepository, labeler *ner.Labeler) *Builder {
	return &Builder{messages: messages, labeler: labeler}
}

func (b *Builder) labeledMessages() ([]models.Message, [][]ner.LabeledToken, error) {
	msgs, err := b.messages.ListByStatus(models.MessageStatusProcessed, exportBatchLimit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list processed messages: %w", err)
	}

	var kept []models.Message
	var labeled [][]ner.LabeledToken
	for _, m := range msgs {
		tokens := amharic.Preprocess(m.Text)
		if len(tokens) == 0 {
			continue
		}
		kept = append(kept, m)
		labeled = append(labeled, b.labeler.Label(tokens))
	}
	return kept, labeled, nil
}

// CoNLL renders the labeled dataset in CoNLL format.
func (b *Builder) CoNLL() ([]byte, error) {
	_, labeled, err := b.labeledMessages()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := ner.WriteCoNLL(&buf, labeled); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LabeledRow is one token-label pair in the CSV dataset.
type LabeledRow struct {
	MessageID int    `csv:"message_id"`
	Position  int    `csv:"position"`
	Token     string `csv:"token"`
	Label     string `csv:"label"`
}

// CSV renders the labeled dataset as token-per-row CSV.
func (b *Builder) CSV() ([]byte, error) {
	msgs, labeled, err := b.labeledMessages()
	if err != nil {
		return nil, err
	}

	var rows []LabeledRow
	for i, tokens := range labeled {
		for pos, lt := range tokens {
			rows = append(rows, LabeledRow{
				MessageID: msgs[i].ID,
				Position:  pos,
				Token:     lt.Token,
				Label:     string(lt.Label),
			})
		}
	}

	out, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal CSV: %w", err)
	}
	return out, nil
}
