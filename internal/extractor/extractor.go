// Package extractor turns raw message text into business entities. Two
// implementations exist: a Gemini-backed client and a rule-based fallback
// built on the ner labeler. Pipeline workers merge both.
package extractor

import (
	"context"
	"strings"

	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/models"
)

// Client extracts entities from one message text. Returned entities carry
// no ID or MessageID; the caller assigns those on persist.
type Client interface {
	Extract(ctx context.Context, text string) ([]models.Entity, error)
}

// NormalizeValue canonicalizes an entity value for dedup and aggregation.
func NormalizeValue(v string) string {
	return strings.ToLower(strings.Join(strings.Fields(v), " "))
}

// Merge combines LLM and rule extractions. LLM entities win; rule entities
// are kept only when no LLM entity of the same type covers the same
// normalized value.
func Merge(llm, rules []models.Entity) []models.Entity {
	if len(llm) == 0 {
		return rules
	}
	seen := make(map[string]struct{}, len(llm))
	for _, e := range llm {
		seen[e.Type+"\x00"+e.NormalizedValue] = struct{}{}
	}
	out := make([]models.Entity, 0, len(llm)+len(rules))
	out = append(out, llm...)
	for _, e := range rules {
		if _, dup := seen[e.Type+"\x00"+e.NormalizedValue]; dup {
			continue
		}
		out = append(out, e)
	}
	return out
}
