// internal/domain/analytics/service.go
package analytics

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/config"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/timeutil"
)

// Cache stores JSON snapshots of expensive aggregates. GetJSON reports
// false on a miss.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Service builds sales, tax and stock reports
type Service struct {
	db     *gorm.DB
	config *config.Config
	cache  Cache
}

// NewService creates a new analytics service. cache may be nil.
func NewService(db *gorm.DB, cfg *config.Config, cache Cache) *Service {
	return &Service{
		db:     db,
		config: cfg,
		cache:  cache,
	}
}

// ReportRequest carries the query parameters shared by every report
type ReportRequest struct {
	StartDate  string `form:"start_date"`
	EndDate    string `form:"end_date"`
	GroupBy    string `form:"group_by" binding:"omitempty,oneof=day week month"`
	Limit      int    `form:"limit" binding:"omitempty,min=1,max=100"`
	CustomerID uint   `form:"customer_id"`
}

const (
	GroupByDay   = "day"
	GroupByWeek  = "week"
	GroupByMonth = "month"

	defaultTopProducts = 10
	daysPerYear        = 365
)

func withinRange(query *gorm.DB, column string, r timeutil.Range) *gorm.DB {
	if r.From != nil {
		query = query.Where(column+" >= ?", *r.From)
	}
	if r.To != nil {
		query = query.Where(column+" < ?", *r.To)
	}
	return query
}

func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
