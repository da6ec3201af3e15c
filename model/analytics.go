package model

import "time"

// QueryEvent represents a single query execution for analytics tracking
type QueryEvent struct {
	IndexName    string        `json:"index_name"`
	Query        string        `json:"query"`
	QueryType    string        `json:"query_type"` // "phrase", "proximity", "boolean", "phonetic"
	ResponseTime time.Duration `json:"response_time"`
	ResultCount  int           `json:"result_count"`
	Timestamp    time.Time     `json:"timestamp"`
}

// PopularQuery represents aggregated data for frequently issued queries
type PopularQuery struct {
	Query      string `json:"query"`
	QueryCount int    `json:"query_count"`
}

// IndexUsage represents per-index query statistics
type IndexUsage struct {
	IndexName     string `json:"index_name"`
	DocumentCount int    `json:"document_count"`
	QueryCount    int    `json:"query_count"`
}

// ResponseTimeDistribution represents response time distribution buckets
type ResponseTimeDistribution struct {
	Bucket0To1ms     int     `json:"bucket_0_1ms"`
	Bucket1To5ms     int     `json:"bucket_1_5ms"`
	Bucket5To25ms    int     `json:"bucket_5_25ms"`
	Bucket25msPlus   int     `json:"bucket_25ms_plus"`
	Percentage0To1   float64 `json:"percentage_0_1"`
	Percentage1To5   float64 `json:"percentage_1_5"`
	Percentage5To25  float64 `json:"percentage_5_25"`
	Percentage25Plus float64 `json:"percentage_25_plus"`
}

// QueryTypeStats represents counts for the different query operations
type QueryTypeStats struct {
	Phrase    int `json:"phrase"`
	Proximity int `json:"proximity"`
	Boolean   int `json:"boolean"`
	Phonetic  int `json:"phonetic"`
}

// QueryPerformanceHourly represents hourly query performance data
type QueryPerformanceHourly struct {
	Hour            int   `json:"hour"`
	QueryCount      int   `json:"query_count"`
	AvgResponseTime int64 `json:"avg_response_time"` // in milliseconds
}

// AnalyticsDashboard represents the complete analytics dashboard data
type AnalyticsDashboard struct {
	// Summary metrics
	TotalQueries      int   `json:"total_queries"`
	ZeroResultQueries int   `json:"zero_result_queries"`
	AvgResponseTime   int64 `json:"avg_response_time"` // in milliseconds
	TotalDocuments    int   `json:"total_documents"`
	ActiveIndexes     int   `json:"active_indexes"`

	// Detailed analytics
	QueryPerformance24h      []QueryPerformanceHourly `json:"query_performance_24h"`
	PopularQueries           []PopularQuery           `json:"popular_queries"`
	IndexUsage               []IndexUsage             `json:"index_usage"`
	ResponseTimeDistribution ResponseTimeDistribution `json:"response_time_distribution"`
	QueryTypes               QueryTypeStats           `json:"query_types"`
}
