// controllers/report.go
package controllers

import (
	"hvacpro-backend/config"
	"hvacpro-backend/models"
	"hvacpro-backend/utils"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReportController handles all reporting functions
type ReportController struct{}

// AnalyticsSummary represents the analytics data
type AnalyticsSummary struct {
	CurrentMonthRevenue   float64           `json:"currentMonthRevenue"`
	MonthGrowth           float64           `json:"monthGrowth"`
	CurrentQuarterRevenue float64           `json:"currentQuarterRevenue"`
	QuarterGrowth         float64           `json:"quarterGrowth"`
	CurrentYearRevenue    float64           `json:"currentYearRevenue"`
	YearGrowth            float64           `json:"yearGrowth"`
	JobsByStatus          map[string]int64  `json:"jobsByStatus"`
	JobsByType            map[string]int64  `json:"jobsByType"`
	TopCustomers          []CustomerSummary `json:"topCustomers"`
	QuickStats            QuickStatistics   `json:"quickStats"`
}

type CustomerSummary struct {
	Name  string  `json:"name"`
	Jobs  int     `json:"jobs"`
	Spent float64 `json:"spent"`
}

type QuickStatistics struct {
	TotalCustomers int     `json:"totalCustomers"`
	TotalSites     int     `json:"totalSites"`
	TotalAssets    int     `json:"totalAssets"`
	TotalInvoices  int     `json:"totalInvoices"`
	AvgInvoice     float64 `json:"avgInvoice"`
}

// GetReportAnalytics returns the complete analytics summary
func (rc *ReportController) GetReportAnalytics(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	now := time.Now()
	currentYear := now.Year()
	loc := now.Location()

	monthStart := utils.BeginningOfMonth(now)
	monthEnd := utils.EndOfMonth(now)

	currentMonthRevenue, err := rc.getRevenue(userID, monthStart, monthEnd)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get monthly revenue")
		return
	}
	lastMonthRevenue, err := rc.getRevenue(userID,
		monthStart.AddDate(0, -1, 0),
		monthEnd.AddDate(0, -1, 0))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get last month revenue")
		return
	}

	currentQuarterRevenue, err := rc.getRevenue(userID, rc.getQuarterStart(now), rc.getQuarterEnd(now))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get quarterly revenue")
		return
	}
	lastQuarterRevenue, err := rc.getRevenue(userID,
		rc.getQuarterStart(now).AddDate(0, -3, 0),
		rc.getQuarterEnd(now).AddDate(0, -3, 0))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get last quarter revenue")
		return
	}

	currentYearRevenue, err := rc.getRevenue(userID,
		time.Date(currentYear, 1, 1, 0, 0, 0, 0, loc),
		time.Date(currentYear, 12, 31, 23, 59, 59, 0, loc))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get yearly revenue")
		return
	}
	lastYearRevenue, err := rc.getRevenue(userID,
		time.Date(currentYear-1, 1, 1, 0, 0, 0, 0, loc),
		time.Date(currentYear-1, 12, 31, 23, 59, 59, 0, loc))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get last year revenue")
		return
	}

	jobsByStatus, err := rc.getJobCounts(userID, "tasks.status")
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get job status breakdown")
		return
	}
	jobsByType, err := rc.getJobCounts(userID, "tasks.type")
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get job type breakdown")
		return
	}

	topCustomers, err := rc.getTopCustomers(userID, 4)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get top customers")
		return
	}

	quickStats, err := rc.getQuickStatistics(userID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get quick statistics")
		return
	}

	summary := AnalyticsSummary{
		CurrentMonthRevenue:   currentMonthRevenue,
		MonthGrowth:           rc.calculateGrowthPercentage(currentMonthRevenue, lastMonthRevenue),
		CurrentQuarterRevenue: currentQuarterRevenue,
		QuarterGrowth:         rc.calculateGrowthPercentage(currentQuarterRevenue, lastQuarterRevenue),
		CurrentYearRevenue:    currentYearRevenue,
		YearGrowth:            rc.calculateGrowthPercentage(currentYearRevenue, lastYearRevenue),
		JobsByStatus:          jobsByStatus,
		JobsByType:            jobsByType,
		TopCustomers:          topCustomers,
		QuickStats:            quickStats,
	}

	c.JSON(http.StatusOK, summary)
}

// Helper functions for reports

// Revenue is recognised when an invoice is marked paid, bucketed by the time
// of that update.
func (rc *ReportController) getRevenue(userID uuid.UUID, start, end time.Time) (float64, error) {
	var total float64
	err := config.DB.Model(&models.Invoice{}).
		Joins("JOIN tasks ON tasks.id = invoices.task_id").
		Joins("JOIN sites ON sites.id = tasks.site_id").
		Joins("JOIN customers ON customers.id = sites.customer_id").
		Where("customers.user_id = ? AND invoices.status = ? AND invoices.updated_at BETWEEN ? AND ?",
			userID, models.InvoiceStatusPaid, start, end).
		Select("COALESCE(SUM(invoices.total), 0)").
		Scan(&total).Error
	return total, err
}

func (rc *ReportController) getQuarterStart(date time.Time) time.Time {
	quarter := (int(date.Month())-1)/3 + 1
	startMonth := time.Month((quarter-1)*3 + 1)
	return time.Date(date.Year(), startMonth, 1, 0, 0, 0, 0, date.Location())
}

func (rc *ReportController) getQuarterEnd(date time.Time) time.Time {
	return rc.getQuarterStart(date).AddDate(0, 3, -1)
}

func (rc *ReportController) calculateGrowthPercentage(current, previous float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return ((current - previous) / previous) * 100
}

func (rc *ReportController) getJobCounts(userID uuid.UUID, column string) (map[string]int64, error) {
	type row struct {
		Key   string
		Count int64
	}
	var rows []row
	err := config.DB.Table("tasks").
		Select(column+" as key, COUNT(*) as count").
		Joins("JOIN sites ON sites.id = tasks.site_id").
		Joins("JOIN customers ON customers.id = sites.customer_id").
		Where("customers.user_id = ?", userID).
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Key] = r.Count
	}
	return counts, nil
}

func (rc *ReportController) getTopCustomers(userID uuid.UUID, limit int) ([]CustomerSummary, error) {
	var customers []CustomerSummary
	err := config.DB.Table("invoices").
		Select("customers.name, COUNT(invoices.id) as jobs, SUM(invoices.total) as spent").
		Joins("JOIN tasks ON tasks.id = invoices.task_id").
		Joins("JOIN sites ON sites.id = tasks.site_id").
		Joins("JOIN customers ON customers.id = sites.customer_id").
		Where("customers.user_id = ?", userID).
		Group("customers.name").
		Order("spent DESC").
		Limit(limit).
		Scan(&customers).Error
	return customers, err
}

func (rc *ReportController) getQuickStatistics(userID uuid.UUID) (QuickStatistics, error) {
	var stats QuickStatistics

	var totalCustomers int64
	if err := config.DB.Model(&models.Customer{}).
		Where("user_id = ?", userID).
		Count(&totalCustomers).Error; err != nil {
		return stats, err
	}
	stats.TotalCustomers = int(totalCustomers)

	var totalSites int64
	if err := config.DB.Model(&models.Site{}).
		Joins("JOIN customers ON customers.id = sites.customer_id").
		Where("customers.user_id = ?", userID).
		Count(&totalSites).Error; err != nil {
		return stats, err
	}
	stats.TotalSites = int(totalSites)

	var totalAssets int64
	if err := config.DB.Model(&models.Asset{}).
		Joins("JOIN sites ON sites.id = assets.site_id").
		Joins("JOIN customers ON customers.id = sites.customer_id").
		Where("customers.user_id = ?", userID).
		Count(&totalAssets).Error; err != nil {
		return stats, err
	}
	stats.TotalAssets = int(totalAssets)

	var totalInvoices int64
	if err := config.DB.Model(&models.Invoice{}).
		Joins("JOIN tasks ON tasks.id = invoices.task_id").
		Joins("JOIN sites ON sites.id = tasks.site_id").
		Joins("JOIN customers ON customers.id = sites.customer_id").
		Where("customers.user_id = ?", userID).
		Count(&totalInvoices).Error; err != nil {
		return stats, err
	}
	stats.TotalInvoices = int(totalInvoices)

	var totalRevenue float64
	if err := config.DB.Model(&models.Invoice{}).
		Joins("JOIN tasks ON tasks.id = invoices.task_id").
		Joins("JOIN sites ON sites.id = tasks.site_id").
		Joins("JOIN customers ON customers.id = sites.customer_id").
		Where("customers.user_id = ?", userID).
		Select("COALESCE(SUM(invoices.total), 0)").
		Scan(&totalRevenue).Error; err != nil {
		return stats, err
	}
	if stats.TotalInvoices > 0 {
		stats.AvgInvoice = utils.Round2(totalRevenue / float64(stats.TotalInvoices))
	}

	return stats, nil
}
