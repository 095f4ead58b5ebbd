package services

import (
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLog is a single recorded request.
type RequestLog struct {
	Timestamp time.Time     `json:"timestamp"`
	Path      string        `json:"path"`
	Method    string        `json:"method"`
	Status    int           `json:"status"`
	Latency   time.Duration `json:"latency"`
}

// MonitoringService keeps an in-memory request log for the monitoring
// endpoint. Logs live only as long as the process.
type MonitoringService struct {
	mu   sync.RWMutex
	logs []RequestLog
}

// NewMonitoringService creates a new MonitoringService.
func NewMonitoringService() *MonitoringService {
	return &MonitoringService{
		logs: make([]RequestLog, 0),
	}
}

// LoggingMiddleware records every request except the monitoring routes
// themselves.
func (s *MonitoringService) LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/v1/monitoring") {
			return
		}

		s.mu.Lock()
		s.logs = append(s.logs, RequestLog{
			Timestamp: start,
			Path:      path,
			Method:    c.Request.Method,
			Status:    c.Writer.Status(),
			Latency:   time.Since(start),
		})
		s.mu.Unlock()
	}
}

// MonitoringSnapshot is the aggregated view of the recent request log.
type MonitoringSnapshot struct {
	TotalRequests int              `json:"total_requests"`
	Endpoints     map[string]int   `json:"endpoints"`
	StatusCodes   map[string]int   `json:"status_codes"`
	AvgLatencyMs  map[string]int64 `json:"avg_latency_ms"`
	RecentErrors  []RequestLog     `json:"recent_errors"`
}

// Snapshot aggregates the requests of the last periodHours hours.
func (s *MonitoringService) Snapshot(periodHours int) MonitoringSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	since := time.Now().Add(-time.Duration(periodHours) * time.Hour)

	snap := MonitoringSnapshot{
		Endpoints:    make(map[string]int),
		StatusCodes:  map[string]int{"2xx": 0, "4xx": 0, "5xx": 0},
		AvgLatencyMs: make(map[string]int64),
		RecentErrors: make([]RequestLog, 0),
	}

	latencySum := make(map[string]time.Duration)
	for _, entry := range s.logs {
		if entry.Timestamp.Before(since) {
			continue
		}
		snap.TotalRequests++
		snap.Endpoints[entry.Path]++
		latencySum[entry.Path] += entry.Latency

		switch {
		case entry.Status >= 200 && entry.Status < 300:
			snap.StatusCodes["2xx"]++
		case entry.Status >= 400 && entry.Status < 500:
			snap.StatusCodes["4xx"]++
		case entry.Status >= 500:
			snap.StatusCodes["5xx"]++
		}

		if entry.Status >= 500 {
			snap.RecentErrors = append(snap.RecentErrors, entry)
			if len(snap.RecentErrors) > 10 {
				snap.RecentErrors = snap.RecentErrors[1:]
			}
		}
	}

	for path, total := range latencySum {
		if count := snap.Endpoints[path]; count > 0 {
			snap.AvgLatencyMs[path] = total.Milliseconds() / int64(count)
		}
	}
	return snap
}
