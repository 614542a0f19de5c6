package extractor

import (
	"context"
	"strings"

	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/amharic"
	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/models"
	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/ner"
)

// Rule-based extraction confidence. Gazetteer hits are precise but recall
// is low, so confidence sits below typical LLM spans.
const rulesConfidence = 0.6

// RulesExtractor derives entities from the BIO labeler output.
type RulesExtractor struct {
	labeler *ner.Labeler
}

func NewRulesExtractor(labeler *ner.Labeler) *RulesExtractor {
	return &RulesExtractor{labeler: labeler}
}

func (r *RulesExtractor) Extract(_ context.Context, text string) ([]models.Entity, error) {
	tokens := amharic.Preprocess(text)
	if len(tokens) == 0 {
		return nil, nil
	}
	spans := ner.Spans(r.labeler.Label(tokens))

	entities := make([]models.Entity, 0, len(spans))
	for _, span := range spans {
		value := strings.Join(span.Tokens, " ")
		e := models.Entity{
			Type:            spanEntityType(span.Type),
			Value:           value,
			NormalizedValue: NormalizeValue(value),
			Source:          models.EntitySourceRules,
			Confidence:      rulesConfidence,
			TokenStart:      span.Start,
			TokenEnd:        span.End,
		}
		if e.Type == models.EntityTypePrice {
			if amount, ok := ner.PriceAmount(span); ok {
				e.AmountETB = &amount
			}
		}
		entities = append(entities, e)
	}
	return entities, nil
}

func spanEntityType(spanType string) string {
	switch spanType {
	case "PRICE":
		return models.EntityTypePrice
	case "LOC":
		return models.EntityTypeLocation
	default:
		return models.EntityTypeProduct
	}
}
