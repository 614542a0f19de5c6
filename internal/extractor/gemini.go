package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/models"
)

const defaultGeminiModel = "gemini-2.0-flash"

const extractionPrompt = `You are an information extraction system for Ethiopian e-commerce Telegram posts written in Amharic.
Extract every business entity from the message below and answer with JSON only, using this exact schema:
{"products":[{"value":"...","confidence":0.0}],"prices":[{"value":"...","amount_etb":0,"confidence":0.0}],"locations":[{"value":"...","confidence":0.0}],"phones":[{"value":"...","confidence":0.0}],"links":[{"value":"...","confidence":0.0}]}
Rules:
- "value" is the literal span from the message.
- "amount_etb" is the numeric price in Ethiopian birr, 0 if not determinable.
- Omit nothing that is present; emit empty arrays for absent entity kinds.

Message:
%s`

// GeminiExtractor calls the Gemini API in JSON mode.
type GeminiExtractor struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiExtractor creates a Gemini-backed extractor.
func NewGeminiExtractor(apiKey, model string, timeout time.Duration) (*GeminiExtractor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = defaultGeminiModel
	}
	if timeout <= 0 {
		timeout = time.Minute
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiExtractor{client: client, model: model, timeout: timeout}, nil
}

func (g *GeminiExtractor) Extract(ctx context.Context, text string) ([]models.Entity, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	prompt := fmt.Sprintf(extractionPrompt, text)
	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			Temperature:      genai.Ptr[float32](0),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini extraction failed: %w", err)
	}

	return parseExtraction(resp.Text())
}

type geminiSpan struct {
	Value      string  `json:"value"`
	AmountETB  float64 `json:"amount_etb"`
	Confidence float64 `json:"confidence"`
}

type geminiExtraction struct {
	Products  []geminiSpan `json:"products"`
	Prices    []geminiSpan `json:"prices"`
	Locations []geminiSpan `json:"locations"`
	Phones    []geminiSpan `json:"phones"`
	Links     []geminiSpan `json:"links"`
}

// parseExtraction decodes the model's JSON answer into entities. Code fences
// around the payload are tolerated.
func parseExtraction(raw string) ([]models.Entity, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var ext geminiExtraction
	if err := json.Unmarshal([]byte(raw), &ext); err != nil {
		return nil, fmt.Errorf("failed to parse gemini response: %w", err)
	}

	var entities []models.Entity
	entities = appendSpans(entities, ext.Products, models.EntityTypeProduct)
	entities = appendSpans(entities, ext.Prices, models.EntityTypePrice)
	entities = appendSpans(entities, ext.Locations, models.EntityTypeLocation)
	entities = appendSpans(entities, ext.Phones, models.EntityTypePhone)
	entities = appendSpans(entities, ext.Links, models.EntityTypeLink)
	return entities, nil
}

func appendSpans(entities []models.Entity, spans []geminiSpan, entityType string) []models.Entity {
	for _, s := range spans {
		if strings.TrimSpace(s.Value) == "" {
			continue
		}
		confidence := s.Confidence
		if confidence <= 0 || confidence > 1 {
			confidence = 0.9
		}
		e := models.Entity{
			Type:            entityType,
			Value:           s.Value,
			NormalizedValue: NormalizeValue(s.Value),
			Source:          models.EntitySourceLLM,
			Confidence:      confidence,
			TokenStart:      -1,
			TokenEnd:        -1,
		}
		if entityType == models.EntityTypePrice && s.AmountETB > 0 {
			amount := s.AmountETB
			e.AmountETB = &amount
		}
		entities = append(entities, e)
	}
	return entities
}
