package repo

import (
	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/models"
)

// InMemoryAnalyticsRepository computes analytics from the in-memory repos.
type InMemoryAnalyticsRepository struct {
	channels *InMemoryChannelRepository
	messages *InMemoryMessageRepository
	entities *InMemoryEntityRepository
}

func NewInMemoryAnalyticsRepository() *InMemoryAnalyticsRepository {
	return &InMemoryAnalyticsRepository{}
}

// SetRepositories wires the source repos the aggregates are computed from.
func (r *InMemoryAnalyticsRepository) SetRepositories(
	channels *InMemoryChannelRepository,
	messages *InMemoryMessageRepository,
	entities *InMemoryEntityRepository,
) {
	r.channels = channels
	r.messages = messages
	r.entities = entities
}

func (r *InMemoryAnalyticsRepository) VendorScorecards() ([]VendorScorecard, error) {
	channels, err := r.channels.GetAll()
	if err != nil {
		return nil, err
	}
	var cards []VendorScorecard
	for _, c := range channels {
		card, err := r.scorecardFor(c)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

func (r *InMemoryAnalyticsRepository) VendorScorecard(channelID int) (VendorScorecard, error) {
	c, err := r.channels.GetByID(channelID)
	if err != nil {
		return VendorScorecard{}, err
	}
	return r.scorecardFor(c)
}

func (r *InMemoryAnalyticsRepository) scorecardFor(c models.Channel) (VendorScorecard, error) {
	messages, _, err := r.messages.Filter(MessageFilter{ChannelID: &c.ID})
	if err != nil {
		return VendorScorecard{}, err
	}

	card := VendorScorecard{
		ChannelID:       c.ID,
		ChannelUsername: c.Username,
		VendorName:      c.VendorName,
		PostCount:       len(messages),
	}
	if len(messages) == 0 {
		return card, nil
	}

	first := messages[0].PostedAt
	last := messages[0].PostedAt
	totalViews := 0
	for _, m := range messages {
		if m.PostedAt.Before(first) {
			first = m.PostedAt
		}
		if m.PostedAt.After(last) {
			last = m.PostedAt
		}
		totalViews += m.Views
	}
	card.AvgViews = float64(totalViews) / float64(len(messages))
	card.PostsPerWeek = postsPerWeek(len(messages), last.Sub(first).Hours()/(24*7))

	var priceSum float64
	var priceCount int
	productCounts := map[string]int{}
	for _, m := range messages {
		entities, _ := r.entities.GetByMessageID(m.ID)
		for _, e := range entities {
			switch e.Type {
			case models.EntityTypePrice:
				if e.AmountETB != nil {
					priceSum += *e.AmountETB
					priceCount++
				}
			case models.EntityTypeProduct:
				productCounts[e.NormalizedValue]++
			}
		}
	}
	if priceCount > 0 {
		card.AvgPriceETB = priceSum / float64(priceCount)
	}
	best := 0
	for product, n := range productCounts {
		if n > best || (n == best && card.TopProduct == "") {
			best = n
			card.TopProduct = product
		}
	}

	card.LendingScore = LendingScore(card.AvgViews, card.PostsPerWeek)
	return card, nil
}

func (r *InMemoryAnalyticsRepository) GetDashboardMetrics() (Metrics, error) {
	m := Metrics{
		MessagesByStatus: map[string]int{},
		EntitiesByType:   map[string]int{},
	}

	channels, err := r.channels.GetAll()
	if err != nil {
		return Metrics{}, err
	}
	m.TotalChannels = len(channels)

	messages, total, err := r.messages.Filter(MessageFilter{})
	if err != nil {
		return Metrics{}, err
	}
	m.TotalMessages = total

	locations := map[string]struct{}{}
	var priceSum float64
	var priceCount int
	for _, msg := range messages {
		m.MessagesByStatus[msg.Status]++
		entities, _ := r.entities.GetByMessageID(msg.ID)
		for _, e := range entities {
			m.TotalEntities++
			m.EntitiesByType[e.Type]++
			if e.Type == models.EntityTypeLocation {
				locations[e.NormalizedValue] = struct{}{}
			}
			if e.AmountETB != nil {
				priceSum += *e.AmountETB
				priceCount++
			}
		}
	}
	if priceCount > 0 {
		m.AvgPriceETB = priceSum / float64(priceCount)
	}
	m.DistinctLocations = len(locations)
	return m, nil
}
