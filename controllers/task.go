package controllers

import (
	"errors"
	"hvacpro-backend/config"
	"hvacpro-backend/models"
	"hvacpro-backend/utils"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateTaskInput defines the expected JSON structure for creating a job.
// Date and time arrive separately, as on the form, and are combined here.
type CreateTaskInput struct {
	SiteID        uuid.UUID `json:"siteId" binding:"required"`
	Type          string    `json:"type" binding:"required,oneof=install service repair maintenance inspection other"`
	Title         string    `json:"title" binding:"required"`
	Description   string    `json:"description"`
	Status        string    `json:"status" binding:"omitempty,oneof=scheduled in_progress completed cancelled"`
	ScheduledDate string    `json:"scheduledDate" binding:"required"` // YYYY-MM-DD
	ScheduledTime string    `json:"scheduledTime"`                    // HH:MM, defaults to 09:00
}

// UpdateTaskInput defines the expected JSON structure for updating a job
type UpdateTaskInput struct {
	SiteID        *uuid.UUID `json:"siteId"`
	Type          *string    `json:"type" binding:"omitempty,oneof=install service repair maintenance inspection other"`
	Title         *string    `json:"title"`
	Description   *string    `json:"description"`
	Status        *string    `json:"status" binding:"omitempty,oneof=scheduled in_progress completed cancelled"`
	ScheduledDate *string    `json:"scheduledDate"`
	ScheduledTime *string    `json:"scheduledTime"`
}

// UpdateTaskStatusInput is the shortcut from list and calendar views
type UpdateTaskStatusInput struct {
	Status string `json:"status" binding:"required,oneof=scheduled in_progress completed cancelled"`
}

// LinkAssetInput carries the per-visit service detail recorded on the link
type LinkAssetInput struct {
	AssetID         uuid.UUID `json:"assetId" binding:"required"`
	ServiceNotes    string    `json:"serviceNotes"`
	ConditionBefore string    `json:"conditionBefore" binding:"omitempty,oneof=good fair poor"`
	ConditionAfter  string    `json:"conditionAfter" binding:"omitempty,oneof=good fair poor"`
	FilterChanged   bool      `json:"filterChanged"`
	PartsReplaced   bool      `json:"partsReplaced"`
	PartsList       string    `json:"partsList"`
	LaborHours      *float64  `json:"laborHours" binding:"omitempty,min=0"`
}

// UpdateLinkInput updates service detail on an existing asset-task link
type UpdateLinkInput struct {
	ServiceNotes    *string  `json:"serviceNotes"`
	ConditionBefore *string  `json:"conditionBefore" binding:"omitempty,oneof=good fair poor"`
	ConditionAfter  *string  `json:"conditionAfter" binding:"omitempty,oneof=good fair poor"`
	FilterChanged   *bool    `json:"filterChanged"`
	PartsReplaced   *bool    `json:"partsReplaced"`
	PartsList       *string  `json:"partsList"`
	LaborHours      *float64 `json:"laborHours" binding:"omitempty,min=0"`
}

func combineSchedule(date, clock string) (time.Time, error) {
	if clock == "" {
		clock = "09:00"
	}
	return time.ParseInLocation("2006-01-02 15:04", date+" "+clock, time.Local)
}

// findUserTask loads a task by slug through the site -> customer -> user chain
func findUserTask(userID uuid.UUID, slug string) (models.Task, error) {
	var task models.Task
	err := config.DB.
		Joins("JOIN sites ON sites.id = tasks.site_id").
		Joins("JOIN customers ON customers.id = sites.customer_id").
		Where("customers.user_id = ? AND tasks.slug = ?", userID, slug).
		First(&task).Error
	return task, err
}

// CreateTask schedules a new job at one of the user's sites
func CreateTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input CreateTaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var site models.Site
	if err := config.DB.Joins("JOIN customers ON customers.id = sites.customer_id").
		Where("customers.user_id = ? AND sites.id = ?", userID, input.SiteID).
		First(&site).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Site not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	scheduledAt, err := combineSchedule(input.ScheduledDate, input.ScheduledTime)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid scheduled date or time")
		return
	}

	status := models.TaskStatusScheduled
	if input.Status != "" {
		status = models.TaskStatus(input.Status)
	}

	task := models.Task{
		SiteID:      site.ID,
		Type:        models.TaskType(input.Type),
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
		ScheduledAt: scheduledAt,
	}

	if err := config.DB.Create(&task).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create job")
		return
	}

	c.JSON(http.StatusCreated, task)
}

// GetTasks lists the user's jobs, newest first, with optional ?status= and
// ?search= filters.
func GetTasks(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	query := config.DB.Preload("Site").
		Joins("JOIN sites ON sites.id = tasks.site_id").
		Joins("JOIN customers ON customers.id = sites.customer_id").
		Where("customers.user_id = ?", userID)

	if status := c.Query("status"); status != "" {
		if !models.TaskStatus(status).Valid() {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid status filter")
			return
		}
		query = query.Where("tasks.status = ?", status)
	}
	if search := c.Query("search"); search != "" {
		term := "%" + search + "%"
		query = query.Where("tasks.title LIKE ? OR tasks.description LIKE ?", term, term)
	}

	var tasks []models.Task
	if err := query.Order("tasks.scheduled_at DESC").Find(&tasks).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve jobs")
		return
	}

	c.JSON(http.StatusOK, tasks)
}

// GetTask shows one job with its site, customer, linked assets and invoice
func GetTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	task, err := findUserTask(userID, c.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Job not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var site models.Site
	config.DB.First(&site, "id = ?", task.SiteID)
	var customer models.Customer
	config.DB.First(&customer, "id = ?", site.CustomerID)

	var links []models.AssetTask
	if err := config.DB.Preload("Asset").Preload("Asset.Brand").Preload("Asset.Model").
		Where("task_id = ?", task.ID).Find(&links).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve linked assets")
		return
	}

	var invoice *models.Invoice
	var found models.Invoice
	if err := config.DB.Preload("Items").Where("task_id = ?", task.ID).First(&found).Error; err == nil {
		invoice = &found
	}

	c.JSON(http.StatusOK, gin.H{
		"job":      task,
		"site":     site,
		"customer": customer,
		"assets":   links,
		"invoice":  invoice,
	})
}

// UpdateTask edits a job. completed_at is set to now only when the status
// moves to completed through this flow, and cleared for any other status.
func UpdateTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input UpdateTaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	task, err := findUserTask(userID, c.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Job not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.SiteID != nil {
		var site models.Site
		if err := config.DB.Joins("JOIN customers ON customers.id = sites.customer_id").
			Where("customers.user_id = ? AND sites.id = ?", userID, *input.SiteID).
			First(&site).Error; err != nil {
			utils.RespondWithError(c, http.StatusNotFound, "Site not found")
			return
		}
		task.SiteID = site.ID
	}
	if input.Type != nil {
		task.Type = models.TaskType(*input.Type)
	}
	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.ScheduledDate != nil || input.ScheduledTime != nil {
		date := task.ScheduledAt.Format("2006-01-02")
		clock := task.ScheduledAt.Format("15:04")
		if input.ScheduledDate != nil {
			date = *input.ScheduledDate
		}
		if input.ScheduledTime != nil {
			clock = *input.ScheduledTime
		}
		scheduledAt, err := combineSchedule(date, clock)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid scheduled date or time")
			return
		}
		task.ScheduledAt = scheduledAt
	}
	if input.Status != nil {
		newStatus := models.TaskStatus(*input.Status)
		if newStatus == models.TaskStatusCompleted {
			if task.Status != models.TaskStatusCompleted || task.CompletedAt == nil {
				now := time.Now()
				task.CompletedAt = &now
			}
		} else {
			task.CompletedAt = nil
		}
		task.Status = newStatus
	}

	if err := config.DB.Save(&task).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update job")
		return
	}

	c.JSON(http.StatusOK, task)
}

// UpdateTaskStatus is the status shortcut used from list and calendar views.
// It changes only the status; completed_at is owned by the edit flow.
func UpdateTaskStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input UpdateTaskStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	task, err := findUserTask(userID, c.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Job not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	task.Status = models.TaskStatus(input.Status)
	if err := config.DB.Save(&task).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update job status")
		return
	}

	c.JSON(http.StatusOK, task)
}

// DeleteTask removes a job together with its invoice and asset links
func DeleteTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	task, err := findUserTask(userID, c.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Job not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	invoiceIDs := tx.Model(&models.Invoice{}).Select("id").Where("task_id = ?", task.ID)
	if err := tx.Where("invoice_id IN (?)", invoiceIDs).Delete(&models.InvoiceItem{}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete invoice items")
		return
	}
	if err := tx.Where("task_id = ?", task.ID).Delete(&models.Invoice{}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete invoice")
		return
	}
	if err := tx.Where("task_id = ?", task.ID).Delete(&models.AssetTask{}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete asset links")
		return
	}
	if err := tx.Delete(&task).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete job")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, gin.H{"message": "Job deleted successfully"})
}

// LinkTaskAsset attaches an asset to a job with its service detail.
// A given (asset, task) pair can be linked at most once.
func LinkTaskAsset(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input LinkAssetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	task, err := findUserTask(userID, c.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Job not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	// The asset must be reachable through the same ownership chain
	var asset models.Asset
	if err := config.DB.
		Joins("JOIN sites ON sites.id = assets.site_id").
		Joins("JOIN customers ON customers.id = sites.customer_id").
		Where("customers.user_id = ? AND assets.id = ?", userID, input.AssetID).
		First(&asset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Asset not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var existing models.AssetTask
	if err := config.DB.Where("asset_id = ? AND task_id = ?", asset.ID, task.ID).
		First(&existing).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Asset is already linked to this job")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	link := models.AssetTask{
		AssetID:         asset.ID,
		TaskID:          task.ID,
		ServiceNotes:    input.ServiceNotes,
		ConditionBefore: input.ConditionBefore,
		ConditionAfter:  input.ConditionAfter,
		FilterChanged:   input.FilterChanged,
		PartsReplaced:   input.PartsReplaced,
		PartsList:       input.PartsList,
		LaborHours:      input.LaborHours,
	}

	if err := config.DB.Create(&link).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to link asset")
		return
	}

	c.JSON(http.StatusCreated, link)
}

// UpdateTaskAssetLink edits the service detail on an existing link
func UpdateTaskAssetLink(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input UpdateLinkInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	task, err := findUserTask(userID, c.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Job not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var link models.AssetTask
	if err := config.DB.
		Joins("JOIN assets ON assets.id = asset_tasks.asset_id").
		Where("asset_tasks.task_id = ? AND assets.slug = ?", task.ID, c.Param("assetSlug")).
		First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Asset link not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.ServiceNotes != nil {
		link.ServiceNotes = *input.ServiceNotes
	}
	if input.ConditionBefore != nil {
		link.ConditionBefore = *input.ConditionBefore
	}
	if input.ConditionAfter != nil {
		link.ConditionAfter = *input.ConditionAfter
	}
	if input.FilterChanged != nil {
		link.FilterChanged = *input.FilterChanged
	}
	if input.PartsReplaced != nil {
		link.PartsReplaced = *input.PartsReplaced
	}
	if input.PartsList != nil {
		link.PartsList = *input.PartsList
	}
	if input.LaborHours != nil {
		link.LaborHours = input.LaborHours
	}

	if err := config.DB.Save(&link).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update asset link")
		return
	}

	c.JSON(http.StatusOK, link)
}

// UnlinkTaskAsset removes an asset from a job
func UnlinkTaskAsset(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	task, err := findUserTask(userID, c.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Job not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	assetIDs := config.DB.Model(&models.Asset{}).Select("id").Where("slug = ?", c.Param("assetSlug"))
	result := config.DB.Where("task_id = ? AND asset_id IN (?)", task.ID, assetIDs).
		Delete(&models.AssetTask{})

	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to unlink asset")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Asset link not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Asset unlinked successfully"})
}
