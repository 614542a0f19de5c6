package extractor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/models"
	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/ner"
)

func TestRulesExtractor(t *testing.T) {
	r := NewRulesExtractor(ner.NewLabeler(nil, nil))

	entities, err := r.Extract(context.Background(), "ምርት ዋጋ፡ 500 ብር አድራሻ ቦሌ")
	require.NoError(t, err)
	require.Len(t, entities, 3)

	byType := map[string]models.Entity{}
	for _, e := range entities {
		byType[e.Type] = e
	}

	price, ok := byType[models.EntityTypePrice]
	require.True(t, ok)
	require.NotNil(t, price.AmountETB)
	assert.Equal(t, 500.0, *price.AmountETB)
	assert.Equal(t, models.EntitySourceRules, price.Source)
	assert.GreaterOrEqual(t, price.TokenStart, 0)

	assert.Contains(t, byType, models.EntityTypeProduct)
	assert.Contains(t, byType, models.EntityTypeLocation)
}

func TestRulesExtractorEmptyText(t *testing.T) {
	r := NewRulesExtractor(ner.NewLabeler(nil, nil))

	entities, err := r.Extract(context.Background(), "  ።፣  ")
	require.NoError(t, err)
	assert.Empty(t, entities)
}

func TestParseExtraction(t *testing.T) {
	raw := `{"products":[{"value":"የሴት ጫማ","confidence":0.95}],
		"prices":[{"value":"1200 ብር","amount_etb":1200,"confidence":0.9}],
		"locations":[{"value":"ቦሌ","confidence":0.8}],
		"phones":[{"value":"0911223344"}],
		"links":[]}`

	entities, err := parseExtraction(raw)
	require.NoError(t, err)
	require.Len(t, entities, 4)

	assert.Equal(t, models.EntityTypeProduct, entities[0].Type)
	assert.Equal(t, "የሴት ጫማ", entities[0].Value)
	assert.Equal(t, "የሴት ጫማ", entities[0].NormalizedValue)
	assert.Equal(t, models.EntitySourceLLM, entities[0].Source)
	assert.Equal(t, -1, entities[0].TokenStart)

	price := entities[1]
	require.NotNil(t, price.AmountETB)
	assert.Equal(t, 1200.0, *price.AmountETB)

	// Missing confidence falls back to the default.
	assert.Equal(t, 0.9, entities[3].Confidence)
}

func TestParseExtractionCodeFence(t *testing.T) {
	raw := "```json\n{\"products\":[],\"prices\":[],\"locations\":[{\"value\":\"መርካቶ\",\"confidence\":0.7}],\"phones\":[],\"links\":[]}\n```"

	entities, err := parseExtraction(raw)
	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, models.EntityTypeLocation, entities[0].Type)
}

func TestParseExtractionMalformed(t *testing.T) {
	_, err := parseExtraction("not json at all")
	assert.Error(t, err)
}

func TestMergePrefersLLM(t *testing.T) {
	llm := []models.Entity{
		{Type: models.EntityTypeProduct, Value: "ጫማ", NormalizedValue: "ጫማ", Source: models.EntitySourceLLM},
	}
	rules := []models.Entity{
		{Type: models.EntityTypeProduct, Value: "ጫማ", NormalizedValue: "ጫማ", Source: models.EntitySourceRules},
		{Type: models.EntityTypeLocation, Value: "ቦሌ", NormalizedValue: "ቦሌ", Source: models.EntitySourceRules},
	}

	merged := Merge(llm, rules)
	require.Len(t, merged, 2)
	assert.Equal(t, models.EntitySourceLLM, merged[0].Source)
	assert.Equal(t, models.EntityTypeLocation, merged[1].Type)
}

func TestMergeNoLLMKeepsRules(t *testing.T) {
	rules := []models.Entity{
		{Type: models.EntityTypePrice, NormalizedValue: "500 ብር", Source: models.EntitySourceRules},
	}
	merged := Merge(nil, rules)
	assert.Equal(t, rules, merged)
}
