// internal/domain/analytics/dashboard.go
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/customer"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/invoice"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/product"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/domain/reminder"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/timeutil"
)

const dashboardCacheKey = "dashboard:stats"

// DashboardStats is the at-a-glance summary shown on the home screen
type DashboardStats struct {
	TodaySales       decimal.Decimal `json:"today_sales"`
	TodayCount       int64           `json:"today_count"`
	MonthSales       decimal.Decimal `json:"month_sales"`
	LowStockCount    int64           `json:"low_stock_count"`
	OverStockCount   int64           `json:"over_stock_count"`
	PendingReminders int64           `json:"pending_reminders"`
	TotalProducts    int64           `json:"total_products"`
	TotalCustomers   int64           `json:"total_customers"`
	GeneratedAt      time.Time       `json:"generated_at"`
}

type salesAggregate struct {
	Total decimal.Decimal
	Count int64
}

// GetDashboardStats returns the dashboard summary, served from the cache
// when a fresh copy exists
func (s *Service) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	if s.cache != nil {
		var cached DashboardStats
		hit, err := s.cache.GetJSON(ctx, dashboardCacheKey, &cached)
		if err != nil {
			logrus.WithError(err).Warn("dashboard cache read failed")
		} else if hit {
			return &cached, nil
		}
	}

	stats, err := s.computeDashboardStats()
	if err != nil {
		return nil, err
	}

	if s.cache != nil && s.config.Checkout.DashboardCacheTTL > 0 {
		if err := s.cache.SetJSON(ctx, dashboardCacheKey, stats, s.config.Checkout.DashboardCacheTTL); err != nil {
			logrus.WithError(err).Warn("dashboard cache write failed")
		}
	}
	return stats, nil
}

func (s *Service) computeDashboardStats() (*DashboardStats, error) {
	now := time.Now()
	today := timeutil.StartOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)
	monthStart := timeutil.StartOfMonth(now)

	stats := &DashboardStats{GeneratedAt: now.UTC()}

	var todayAgg salesAggregate
	if err := s.db.Model(&invoice.Invoice{}).
		Select("COALESCE(SUM(total), 0) AS total, COUNT(*) AS count").
		Where("created_at >= ? AND created_at < ?", today, tomorrow).
		Scan(&todayAgg).Error; err != nil {
		return nil, fmt.Errorf("failed to sum today's sales: %w", err)
	}
	stats.TodaySales = round2(todayAgg.Total)
	stats.TodayCount = todayAgg.Count

	var monthAgg salesAggregate
	if err := s.db.Model(&invoice.Invoice{}).
		Select("COALESCE(SUM(total), 0) AS total, COUNT(*) AS count").
		Where("created_at >= ?", monthStart).
		Scan(&monthAgg).Error; err != nil {
		return nil, fmt.Errorf("failed to sum month's sales: %w", err)
	}
	stats.MonthSales = round2(monthAgg.Total)

	activeProducts := func() *gorm.DB {
		return s.db.Model(&product.Product{}).Where("is_active = ?", true)
	}

	if err := activeProducts().
		Where("low_stock_alert IS NOT NULL AND current_stock <= low_stock_alert").
		Count(&stats.LowStockCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count low stock: %w", err)
	}
	if err := activeProducts().
		Where("over_stock_alert IS NOT NULL AND current_stock >= over_stock_alert").
		Count(&stats.OverStockCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count over stock: %w", err)
	}
	if err := activeProducts().Count(&stats.TotalProducts).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	if err := s.db.Model(&reminder.Reminder{}).
		Where("status = ?", reminder.StatusPending).
		Count(&stats.PendingReminders).Error; err != nil {
		return nil, fmt.Errorf("failed to count reminders: %w", err)
	}

	if err := s.db.Model(&customer.Customer{}).Count(&stats.TotalCustomers).Error; err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}

	return stats, nil
}
