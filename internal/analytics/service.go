// Package analytics tracks executed queries and aggregates them into
// dashboard statistics.
package analytics

import (
	stdErrors "errors"
	"log"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/Dhruv27Mishra/go-retrieval-engine/internal/persistence"
	"github.com/Dhruv27Mishra/go-retrieval-engine/model"
	"github.com/Dhruv27Mishra/go-retrieval-engine/services"
)

const (
	defaultDataFile = "analytics_data.json"
	maxEventsToKeep = 10000 // Keep last 10k events for performance
)

// Service implements analytics tracking and reporting.
type Service struct {
	mutex        sync.RWMutex
	events       []model.QueryEvent
	indexManager services.IndexManager
	dataFilePath string
}

// NewService creates a new analytics service persisting its events to
// dataFilePath (a default path is used when empty).
func NewService(indexManager services.IndexManager, dataFilePath string) *Service {
	if dataFilePath == "" {
		dataFilePath = defaultDataFile
	}
	service := &Service{
		events:       make([]model.QueryEvent, 0),
		indexManager: indexManager,
		dataFilePath: dataFilePath,
	}

	if err := service.loadData(); err != nil {
		log.Printf("Warning: Failed to load analytics data: %v", err)
	}

	return service
}

// TrackQueryEvent records a query execution. Events without a timestamp are
// stamped with the current time.
func (s *Service) TrackQueryEvent(event model.QueryEvent) error {
	s.mutex.Lock()
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	s.events = append(s.events, event)

	// Keep only the latest events to prevent unbounded growth.
	if len(s.events) > maxEventsToKeep {
		s.events = s.events[len(s.events)-maxEventsToKeep:]
	}

	// Snapshot under the lock so the background save never races appends.
	snapshot := make([]model.QueryEvent, len(s.events))
	copy(snapshot, s.events)
	s.mutex.Unlock()

	go func() {
		if err := persistence.SaveJSON(s.dataFilePath, snapshot); err != nil {
			log.Printf("Warning: Failed to save analytics data: %v", err)
		}
	}()

	return nil
}

// GetDashboardData returns complete analytics dashboard data.
func (s *Service) GetDashboardData() (model.AnalyticsDashboard, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	now := time.Now()
	yesterday := now.Add(-24 * time.Hour)
	lastWeek := now.Add(-7 * 24 * time.Hour)

	last24hEvents := filterEventsAfter(s.events, yesterday)
	lastWeekEvents := filterEventsAfter(s.events, lastWeek)

	dashboard := model.AnalyticsDashboard{
		TotalQueries:             len(last24hEvents),
		ZeroResultQueries:        countZeroResults(last24hEvents),
		AvgResponseTime:          averageResponseTimeMs(last24hEvents),
		TotalDocuments:           s.totalDocuments(),
		ActiveIndexes:            len(s.indexManager.ListIndexes()),
		QueryPerformance24h:      hourlyPerformance(last24hEvents),
		PopularQueries:           popularQueries(lastWeekEvents),
		IndexUsage:               s.indexUsage(lastWeekEvents),
		ResponseTimeDistribution: responseTimeDistribution(last24hEvents),
		QueryTypes:               queryTypeStats(last24hEvents),
	}

	return dashboard, nil
}

// filterEventsAfter returns events with timestamps after the given time.
func filterEventsAfter(events []model.QueryEvent, after time.Time) []model.QueryEvent {
	var filtered []model.QueryEvent
	for _, event := range events {
		if event.Timestamp.After(after) {
			filtered = append(filtered, event)
		}
	}
	return filtered
}

func countZeroResults(events []model.QueryEvent) int {
	count := 0
	for _, event := range events {
		if event.ResultCount == 0 {
			count++
		}
	}
	return count
}

// averageResponseTimeMs calculates the average response time in milliseconds.
func averageResponseTimeMs(events []model.QueryEvent) int64 {
	if len(events) == 0 {
		return 0
	}

	var total time.Duration
	for _, event := range events {
		total += event.ResponseTime
	}
	return (total / time.Duration(len(events))).Milliseconds()
}

// totalDocuments returns the document count summed across all indexes.
func (s *Service) totalDocuments() int {
	total := 0
	for _, indexName := range s.indexManager.ListIndexes() {
		accessor, err := s.indexManager.GetIndex(indexName)
		if err != nil {
			continue
		}
		total += accessor.Stats().DocumentCount
	}
	return total
}

// hourlyPerformance buckets the last-24h events by hour of day.
func hourlyPerformance(events []model.QueryEvent) []model.QueryPerformanceHourly {
	hourlyData := make(map[int][]model.QueryEvent)
	for _, event := range events {
		hour := event.Timestamp.Hour()
		hourlyData[hour] = append(hourlyData[hour], event)
	}

	var performance []model.QueryPerformanceHourly
	for hour := 0; hour < 24; hour++ {
		bucket := hourlyData[hour]
		performance = append(performance, model.QueryPerformanceHourly{
			Hour:            hour,
			QueryCount:      len(bucket),
			AvgResponseTime: averageResponseTimeMs(bucket),
		})
	}
	return performance
}

// popularQueries returns the five most frequent query strings.
func popularQueries(events []model.QueryEvent) []model.PopularQuery {
	queryCounts := make(map[string]int)
	for _, event := range events {
		if event.Query != "" {
			queryCounts[event.Query]++
		}
	}

	type queryCount struct {
		query string
		count int
	}
	var queries []queryCount
	for query, count := range queryCounts {
		queries = append(queries, queryCount{query: query, count: count})
	}
	sort.Slice(queries, func(i, j int) bool {
		if queries[i].count != queries[j].count {
			return queries[i].count > queries[j].count
		}
		return queries[i].query < queries[j].query
	})

	var popular []model.PopularQuery
	for i, qc := range queries {
		if i >= 5 {
			break
		}
		popular = append(popular, model.PopularQuery{
			Query:      qc.query,
			QueryCount: qc.count,
		})
	}
	return popular
}

// indexUsage returns per-index query and document counts.
func (s *Service) indexUsage(events []model.QueryEvent) []model.IndexUsage {
	queryCounts := make(map[string]int)
	for _, event := range events {
		queryCounts[event.IndexName]++
	}

	var usage []model.IndexUsage
	for _, indexName := range s.indexManager.ListIndexes() {
		documentCount := 0
		if accessor, err := s.indexManager.GetIndex(indexName); err == nil {
			documentCount = accessor.Stats().DocumentCount
		}
		usage = append(usage, model.IndexUsage{
			IndexName:     indexName,
			DocumentCount: documentCount,
			QueryCount:    queryCounts[indexName],
		})
	}
	return usage
}

// responseTimeDistribution buckets response times. The boundaries are tuned
// for in-memory lookups, which finish in microseconds rather than tens of
// milliseconds.
func responseTimeDistribution(events []model.QueryEvent) model.ResponseTimeDistribution {
	dist := model.ResponseTimeDistribution{}
	total := len(events)
	if total == 0 {
		return dist
	}

	for _, event := range events {
		switch ms := event.ResponseTime.Milliseconds(); {
		case ms < 1:
			dist.Bucket0To1ms++
		case ms < 5:
			dist.Bucket1To5ms++
		case ms < 25:
			dist.Bucket5To25ms++
		default:
			dist.Bucket25msPlus++
		}
	}

	dist.Percentage0To1 = float64(dist.Bucket0To1ms) / float64(total) * 100
	dist.Percentage1To5 = float64(dist.Bucket1To5ms) / float64(total) * 100
	dist.Percentage5To25 = float64(dist.Bucket5To25ms) / float64(total) * 100
	dist.Percentage25Plus = float64(dist.Bucket25msPlus) / float64(total) * 100

	return dist
}

// queryTypeStats counts events per query operation.
func queryTypeStats(events []model.QueryEvent) model.QueryTypeStats {
	stats := model.QueryTypeStats{}
	for _, event := range events {
		switch event.QueryType {
		case "phrase":
			stats.Phrase++
		case "proximity":
			stats.Proximity++
		case "boolean":
			stats.Boolean++
		case "phonetic":
			stats.Phonetic++
		}
	}
	return stats
}

// loadData loads previously persisted events, tolerating a missing file.
func (s *Service) loadData() error {
	err := persistence.LoadJSON(s.dataFilePath, &s.events)
	if err != nil && !stdErrors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
