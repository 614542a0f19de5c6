package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/epythonlab/amharic-telegram-ecommerce-entity-extraction/internal/models"
)

type PostgresAnalyticsRepository struct {
	db *sql.DB
}

func NewPostgresAnalyticsRepository(db *sql.DB) *PostgresAnalyticsRepository {
	return &PostgresAnalyticsRepository{db: db}
}

const scorecardQuery = `
	SELECT c.id, c.username, c.vendor_name,
		COUNT(m.id) AS post_count,
		COALESCE(AVG(m.views), 0) AS avg_views,
		COALESCE(EXTRACT(EPOCH FROM (MAX(m.posted_at) - MIN(m.posted_at))) / 604800.0, 0) AS span_weeks
	FROM channels c
	LEFT JOIN messages m ON m.channel_id = c.id
`

func (r *PostgresAnalyticsRepository) VendorScorecards() ([]VendorScorecard, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, scorecardQuery+` GROUP BY c.id, c.username, c.vendor_name ORDER BY c.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []VendorScorecard
	for rows.Next() {
		card, err := scanScorecard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range cards {
		if err := r.fillEntityStats(ctx, &cards[i]); err != nil {
			return nil, err
		}
	}
	return cards, nil
}

func (r *PostgresAnalyticsRepository) VendorScorecard(channelID int) (VendorScorecard, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	row := r.db.QueryRowContext(ctx,
		scorecardQuery+` WHERE c.id = $1 GROUP BY c.id, c.username, c.vendor_name`, channelID)
	card, err := scanScorecard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return VendorScorecard{}, ErrChannelNotFound
	}
	if err != nil {
		return VendorScorecard{}, err
	}
	if err := r.fillEntityStats(ctx, &card); err != nil {
		return VendorScorecard{}, err
	}
	return card, nil
}

func scanScorecard(row interface{ Scan(...any) error }) (VendorScorecard, error) {
	var card VendorScorecard
	var spanWeeks float64
	err := row.Scan(&card.ChannelID, &card.ChannelUsername, &card.VendorName,
		&card.PostCount, &card.AvgViews, &spanWeeks)
	if err != nil {
		return VendorScorecard{}, err
	}
	card.PostsPerWeek = postsPerWeek(card.PostCount, spanWeeks)
	card.LendingScore = LendingScore(card.AvgViews, card.PostsPerWeek)
	return card, nil
}

// postsPerWeek treats a posting history shorter than one week as one week.
func postsPerWeek(postCount int, spanWeeks float64) float64 {
	if postCount == 0 {
		return 0
	}
	if spanWeeks < 1 {
		spanWeeks = 1
	}
	return float64(postCount) / spanWeeks
}

// fillEntityStats completes a scorecard with price and product aggregates.
// A channel with no product entities keeps an empty TopProduct.
func (r *PostgresAnalyticsRepository) fillEntityStats(ctx context.Context, card *VendorScorecard) error {
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(AVG(e.amount_etb), 0)
		FROM entities e JOIN messages m ON e.message_id = m.id
		WHERE m.channel_id = $1 AND e.type = $2 AND e.amount_etb IS NOT NULL
	`, card.ChannelID, models.EntityTypePrice).Scan(&card.AvgPriceETB)
	if err != nil {
		return err
	}

	err = r.db.QueryRowContext(ctx, `
		SELECT e.normalized_value
		FROM entities e JOIN messages m ON e.message_id = m.id
		WHERE m.channel_id = $1 AND e.type = $2
		GROUP BY e.normalized_value
		ORDER BY COUNT(*) DESC
		LIMIT 1
	`, card.ChannelID, models.EntityTypeProduct).Scan(&card.TopProduct)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	return nil
}

func (r *PostgresAnalyticsRepository) GetDashboardMetrics() (Metrics, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	m := Metrics{
		MessagesByStatus: map[string]int{},
		EntitiesByType:   map[string]int{},
	}

	scalars := []struct {
		query string
		dest  any
	}{
		{`SELECT COUNT(*) FROM channels`, &m.TotalChannels},
		{`SELECT COUNT(*) FROM messages`, &m.TotalMessages},
		{`SELECT COUNT(*) FROM entities`, &m.TotalEntities},
		{`SELECT COALESCE(AVG(amount_etb), 0) FROM entities WHERE amount_etb IS NOT NULL`, &m.AvgPriceETB},
	}
	for _, s := range scalars {
		if err := r.db.QueryRowContext(ctx, s.query).Scan(s.dest); err != nil {
			return Metrics{}, err
		}
	}
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT normalized_value) FROM entities WHERE type = $1`,
		models.EntityTypeLocation).Scan(&m.DistinctLocations)
	if err != nil {
		return Metrics{}, err
	}

	if err := r.countGroups(ctx, `SELECT status, COUNT(*) FROM messages GROUP BY status`, m.MessagesByStatus); err != nil {
		return Metrics{}, err
	}
	if err := r.countGroups(ctx, `SELECT type, COUNT(*) FROM entities GROUP BY type`, m.EntitiesByType); err != nil {
		return Metrics{}, err
	}

	return m, nil
}

func (r *PostgresAnalyticsRepository) countGroups(ctx context.Context, query string, out map[string]int) error {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return err
		}
		out[key] = n
	}
	return rows.Err()
}
