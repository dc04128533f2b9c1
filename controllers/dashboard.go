package controllers

import (
	"hvacpro-backend/config"
	"hvacpro-backend/models"
	"hvacpro-backend/utils"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetDashboardOverview returns the landing-page summary: headline counts,
// today's and this week's workload, unpaid invoices, revenue collected this
// month and the most recent jobs.
func GetDashboardOverview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var totalCustomers int64
	config.DB.Model(&models.Customer{}).Where("user_id = ?", userID).Count(&totalCustomers)

	var totalSites int64
	config.DB.Model(&models.Site{}).
		Joins("JOIN customers ON customers.id = sites.customer_id").
		Where("customers.user_id = ?", userID).
		Count(&totalSites)

	ownedTasks := func() *gorm.DB {
		return config.DB.Model(&models.Task{}).
			Joins("JOIN sites ON sites.id = tasks.site_id").
			Joins("JOIN customers ON customers.id = sites.customer_id").
			Where("customers.user_id = ?", userID)
	}

	now := time.Now()
	dayStart := utils.BeginningOfDay(now)
	weekStart := utils.BeginningOfWeek(now)

	var jobsToday int64
	ownedTasks().Where("tasks.scheduled_at >= ? AND tasks.scheduled_at < ?",
		dayStart, dayStart.AddDate(0, 0, 1)).Count(&jobsToday)

	var jobsThisWeek int64
	ownedTasks().Where("tasks.scheduled_at >= ? AND tasks.scheduled_at < ?",
		weekStart, weekStart.AddDate(0, 0, 7)).Count(&jobsThisWeek)

	var unpaidInvoices int64
	config.DB.Model(&models.Invoice{}).
		Joins("JOIN tasks ON tasks.id = invoices.task_id").
		Joins("JOIN sites ON sites.id = tasks.site_id").
		Joins("JOIN customers ON customers.id = sites.customer_id").
		Where("customers.user_id = ? AND invoices.status != ?", userID, models.InvoiceStatusPaid).
		Count(&unpaidInvoices)

	// Revenue counts invoices marked paid this month
	monthStart := utils.BeginningOfMonth(now)
	var monthlyRevenue float64
	config.DB.Model(&models.Invoice{}).
		Joins("JOIN tasks ON tasks.id = invoices.task_id").
		Joins("JOIN sites ON sites.id = tasks.site_id").
		Joins("JOIN customers ON customers.id = sites.customer_id").
		Where("customers.user_id = ? AND invoices.status = ? AND invoices.updated_at >= ?",
			userID, models.InvoiceStatusPaid, monthStart).
		Select("COALESCE(SUM(invoices.total), 0)").
		Scan(&monthlyRevenue)

	var recentJobs []models.Task
	config.DB.Preload("Site").
		Joins("JOIN sites ON sites.id = tasks.site_id").
		Joins("JOIN customers ON customers.id = sites.customer_id").
		Where("customers.user_id = ?", userID).
		Order("tasks.scheduled_at DESC").
		Limit(5).
		Find(&recentJobs)

	c.JSON(http.StatusOK, gin.H{
		"totalCustomers": totalCustomers,
		"totalSites":     totalSites,
		"jobsToday":      jobsToday,
		"jobsThisWeek":   jobsThisWeek,
		"unpaidInvoices": unpaidInvoices,
		"monthlyRevenue": monthlyRevenue,
		"recentJobs":     recentJobs,
	})
}
