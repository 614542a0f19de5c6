package repo

// VendorScorecard summarizes one channel's commercial activity. The lending
// score weighs audience reach and posting consistency equally.
type VendorScorecard struct {
	ChannelID       int     `json:"channel_id"`
	ChannelUsername string  `json:"channel_username"`
	VendorName      string  `json:"vendor_name"`
	PostCount       int     `json:"post_count"`
	PostsPerWeek    float64 `json:"posts_per_week"`
	AvgViews        float64 `json:"avg_views"`
	AvgPriceETB     float64 `json:"avg_price_etb"`
	TopProduct      string  `json:"top_product"`
	LendingScore    float64 `json:"lending_score"`
}

// Metrics is the dashboard roll-up across the whole platform.
type Metrics struct {
	TotalChannels     int            `json:"total_channels"`
	TotalMessages     int            `json:"total_messages"`
	MessagesByStatus  map[string]int `json:"messages_by_status"`
	TotalEntities     int            `json:"total_entities"`
	EntitiesByType    map[string]int `json:"entities_by_type"`
	AvgPriceETB       float64        `json:"avg_price_etb"`
	DistinctLocations int            `json:"distinct_locations"`
}

type AnalyticsRepository interface {
	VendorScorecards() ([]VendorScorecard, error)
	VendorScorecard(channelID int) (VendorScorecard, error)
	GetDashboardMetrics() (Metrics, error)
}

// LendingScore combines average views and posting frequency with equal
// weight.
func LendingScore(avgViews, postsPerWeek float64) float64 {
	return 0.5*avgViews + 0.5*postsPerWeek
}
