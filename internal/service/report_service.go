package service

import (
	"context"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/kadankyi1/amforex/internal/auth"
	"github.com/kadankyi1/amforex/internal/models"
	"github.com/kadankyi1/amforex/internal/scope"
	"github.com/kadankyi1/amforex/internal/util"
)

type LogSearcher interface {
	Search(ctx context.Context, index string, query map[string]interface{}) (*esapi.Response, error)
	ParseResponse(res *esapi.Response, target interface{}) error
}

type ActivityQuerier interface {
	QueryRows(ctx context.Context, query string, args ...interface{}) (driver.Rows, error)
}

// ActivityBucket is one category's audit volume on one day.
type ActivityBucket struct {
	Category string    `json:"category"`
	Day      time.Time `json:"day"`
	Count    uint64    `json:"count"`
}

type ReportService struct {
	Guard
	searcher  LogSearcher
	analytics ActivityQuerier
	logIndex  string
}

func NewReportService(g Guard, searcher LogSearcher, analytics ActivityQuerier, logIndex string) *ReportService {
	return &ReportService{Guard: g, searcher: searcher, analytics: analytics, logIndex: logIndex}
}

type esSearchResult struct {
	Hits struct {
		Hits []struct {
			Source models.AuditLogEntry `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// SearchLogs runs a keyword search over the mirrored audit index.
func (s *ReportService) SearchLogs(ctx context.Context, p *auth.Principal, keyword string) ([]*models.AuditLogEntry, error) {
	if err := s.requireCapability(ctx, p, scope.ViewReports); err != nil {
		return nil, err
	}
	keyword = util.SanitizeInput(keyword)
	if keyword == "" {
		return nil, validationError("The keyword field is required.")
	}
	if _, err := s.requireActiveAdmin(ctx, p); err != nil {
		return nil, err
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  keyword,
				"fields": []string{"message", "category", "actor_id"},
			},
		},
		"size": 100,
		"sort": []map[string]interface{}{
			{"created_at": map[string]interface{}{"order": "desc"}},
		},
	}

	res, err := s.searcher.Search(ctx, s.logIndex, query)
	if err != nil {
		return nil, err
	}

	var parsed esSearchResult
	if err := s.searcher.ParseResponse(res, &parsed); err != nil {
		return nil, err
	}

	entries := make([]*models.AuditLogEntry, 0, len(parsed.Hits.Hits))
	for i := range parsed.Hits.Hits {
		entry := parsed.Hits.Hits[i].Source
		entries = append(entries, &entry)
	}
	return entries, nil
}

// Activity returns per-category daily audit counts over the trailing window.
func (s *ReportService) Activity(ctx context.Context, p *auth.Principal, days int) ([]*ActivityBucket, error) {
	if err := s.requireCapability(ctx, p, scope.ViewReports); err != nil {
		return nil, err
	}
	if days < 1 || days > 365 {
		days = 30
	}
	if _, err := s.requireActiveAdmin(ctx, p); err != nil {
		return nil, err
	}

	query := `
		SELECT category, toStartOfDay(created_at) AS day, count() AS total
		FROM audit_events
		WHERE created_at >= now() - INTERVAL ? DAY
		GROUP BY category, day
		ORDER BY day DESC, category ASC`

	rows, err := s.analytics.QueryRows(ctx, query, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buckets []*ActivityBucket
	for rows.Next() {
		b := &ActivityBucket{}
		if err := rows.Scan(&b.Category, &b.Day, &b.Count); err != nil {
			return nil, err
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}
