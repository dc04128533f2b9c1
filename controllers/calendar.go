package controllers

import (
	"hvacpro-backend/config"
	"hvacpro-backend/models"
	"hvacpro-backend/utils"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// calendarJob is the compact job shape rendered inside a day cell
type calendarJob struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	StatusLabel string `json:"statusLabel"`
	Time        string `json:"time"`
	SiteCity    string `json:"siteCity"`
}

// calendarCell is one day in the month grid
type calendarCell struct {
	Date           string        `json:"date"`
	Day            int           `json:"day"`
	InCurrentMonth bool          `json:"inCurrentMonth"`
	IsToday        bool          `json:"isToday"`
	Jobs           []calendarJob `json:"jobs"`
	MoreCount      int           `json:"moreCount"`
	JobsCount      int           `json:"jobsCount"`
}

// buildCalendar lays out a fixed 6-week grid for the month containing ref.
// The grid starts on the Sunday of the week holding the 1st. Only jobs
// scheduled within the reference month are bucketed; at most two are shown
// inline per cell, the rest collapse into a count.
func buildCalendar(ref time.Time, tasks []models.Task, siteCities map[string]string, today time.Time) []calendarCell {
	monthStart := utils.BeginningOfMonth(ref)
	gridStart := utils.BeginningOfWeek(monthStart)

	byDay := make(map[string][]calendarJob)
	for _, task := range tasks {
		if task.ScheduledAt.Year() != ref.Year() || task.ScheduledAt.Month() != ref.Month() {
			continue
		}
		key := task.ScheduledAt.Format("2006-01-02")
		byDay[key] = append(byDay[key], calendarJob{
			Slug:        task.Slug,
			Title:       task.Title,
			Type:        string(task.Type),
			Status:      string(task.Status),
			StatusLabel: task.Status.Label(),
			Time:        task.ScheduledAt.Format("15:04"),
			SiteCity:    siteCities[task.SiteID.String()],
		})
	}

	cells := make([]calendarCell, 0, 42)
	for i := 0; i < 42; i++ {
		day := gridStart.AddDate(0, 0, i)
		key := day.Format("2006-01-02")
		jobs := byDay[key]

		inline := jobs
		more := 0
		if len(jobs) > 2 {
			inline = jobs[:2]
			more = len(jobs) - 2
		}
		if inline == nil {
			inline = []calendarJob{}
		}

		cells = append(cells, calendarCell{
			Date:           key,
			Day:            day.Day(),
			InCurrentMonth: day.Month() == ref.Month(),
			IsToday:        utils.SameDay(day, today),
			Jobs:           inline,
			MoreCount:      more,
			JobsCount:      len(jobs),
		})
	}
	return cells
}

// GetCalendar renders the month view. ?month=YYYY-MM defaults to the current
// month; prevMonth and nextMonth give the navigation targets.
func GetCalendar(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ref := time.Now()
	if month := c.Query("month"); month != "" {
		parsed, err := time.ParseInLocation("2006-01", month, time.Local)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid month, expected YYYY-MM")
			return
		}
		ref = parsed
	}

	monthStart := utils.BeginningOfMonth(ref)
	monthEnd := utils.EndOfMonth(ref)

	var tasks []models.Task
	if err := config.DB.
		Joins("JOIN sites ON sites.id = tasks.site_id").
		Joins("JOIN customers ON customers.id = sites.customer_id").
		Where("customers.user_id = ? AND tasks.scheduled_at BETWEEN ? AND ?", userID, monthStart, monthEnd).
		Order("tasks.scheduled_at").
		Find(&tasks).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve jobs")
		return
	}

	siteCities := make(map[string]string)
	if len(tasks) > 0 {
		siteIDs := make([]string, 0, len(tasks))
		for _, task := range tasks {
			siteIDs = append(siteIDs, task.SiteID.String())
		}
		var sites []models.Site
		if err := config.DB.Where("id IN ?", siteIDs).Find(&sites).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve sites")
			return
		}
		for _, site := range sites {
			siteCities[site.ID.String()] = site.City
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"month":     monthStart.Format("2006-01"),
		"label":     monthStart.Format("January 2006"),
		"prevMonth": monthStart.AddDate(0, -1, 0).Format("2006-01"),
		"nextMonth": monthStart.AddDate(0, 1, 0).Format("2006-01"),
		"weeks":     6,
		"days":      buildCalendar(ref, tasks, siteCities, time.Now()),
	})
}
