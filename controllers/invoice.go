package controllers

import (
	"errors"
	"fmt"
	"hvacpro-backend/config"
	"hvacpro-backend/models"
	"hvacpro-backend/utils"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvoiceItemInput is one line on an invoice
type InvoiceItemInput struct {
	Description string  `json:"description" binding:"required"`
	Quantity    int     `json:"quantity" binding:"required,gt=0"`
	UnitPrice   float64 `json:"unitPrice" binding:"required,min=0"`
}

// CreateInvoiceInput defines the expected JSON structure for creating an invoice
type CreateInvoiceInput struct {
	TaskID uuid.UUID          `json:"taskId" binding:"required"`
	Number string             `json:"number" binding:"required"`
	Status string             `json:"status" binding:"omitempty,oneof=draft sent paid"`
	Notes  string             `json:"notes"`
	Items  []InvoiceItemInput `json:"items" binding:"required,min=1,dive"`
}

// UpdateInvoiceInput defines the expected JSON structure for updating an
// invoice. When Items is present the line set is replaced wholesale.
type UpdateInvoiceInput struct {
	Status *string             `json:"status" binding:"omitempty,oneof=draft sent paid"`
	Notes  *string             `json:"notes"`
	Items  *[]InvoiceItemInput `json:"items" binding:"omitempty,min=1,dive"`
}

// buildItems prices the input lines. Each line total is rounded to cents
// before summing so the invoice total matches what the lines show.
func buildItems(inputs []InvoiceItemInput) ([]models.InvoiceItem, float64) {
	items := make([]models.InvoiceItem, 0, len(inputs))
	total := 0.0
	for _, in := range inputs {
		lineTotal := utils.Round2(float64(in.Quantity) * in.UnitPrice)
		items = append(items, models.InvoiceItem{
			Description: in.Description,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			TotalPrice:  lineTotal,
		})
		total += lineTotal
	}
	return items, utils.Round2(total)
}

// findUserInvoice loads an invoice by slug through the task -> site ->
// customer -> user chain.
func findUserInvoice(userID uuid.UUID, slug string) (models.Invoice, error) {
	var invoice models.Invoice
	err := config.DB.Preload("Items").
		Joins("JOIN tasks ON tasks.id = invoices.task_id").
		Joins("JOIN sites ON sites.id = tasks.site_id").
		Joins("JOIN customers ON customers.id = sites.customer_id").
		Where("customers.user_id = ? AND invoices.slug = ?", userID, slug).
		First(&invoice).Error
	return invoice, err
}

// CreateInvoice creates an invoice for one of the user's jobs. A job carries
// at most one invoice and invoice numbers are unique.
func CreateInvoice(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input CreateInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var task models.Task
	if err := config.DB.
		Joins("JOIN sites ON sites.id = tasks.site_id").
		Joins("JOIN customers ON customers.id = sites.customer_id").
		Where("customers.user_id = ? AND tasks.id = ?", userID, input.TaskID).
		First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Job not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var existing models.Invoice
	if err := config.DB.Where("task_id = ?", task.ID).First(&existing).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Job already has an invoice")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if err := config.DB.Where("number = ?", input.Number).First(&existing).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Invoice number already in use")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	status := models.InvoiceStatusDraft
	if input.Status != "" {
		status = models.InvoiceStatus(input.Status)
	}

	items, total := buildItems(input.Items)
	invoice := models.Invoice{
		TaskID: task.ID,
		Number: input.Number,
		Status: status,
		Total:  total,
		Notes:  input.Notes,
		Items:  items,
	}

	if err := config.DB.Create(&invoice).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create invoice")
		return
	}

	c.JSON(http.StatusCreated, invoice)
}

// GetInvoices lists the user's invoices with the customer and site resolved
// through the job. Optional ?status= filter.
func GetInvoices(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	query := config.DB.Preload("Items").
		Joins("JOIN tasks ON tasks.id = invoices.task_id").
		Joins("JOIN sites ON sites.id = tasks.site_id").
		Joins("JOIN customers ON customers.id = sites.customer_id").
		Where("customers.user_id = ?", userID)

	if status := c.Query("status"); status != "" {
		if !models.InvoiceStatus(status).Valid() {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid status filter")
			return
		}
		query = query.Where("invoices.status = ?", status)
	}

	var invoices []models.Invoice
	if err := query.Order("invoices.created_at DESC").Find(&invoices).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve invoices")
		return
	}

	entries := make([]gin.H, 0, len(invoices))
	for _, invoice := range invoices {
		var task models.Task
		config.DB.First(&task, "id = ?", invoice.TaskID)
		var site models.Site
		config.DB.First(&site, "id = ?", task.SiteID)
		var customer models.Customer
		config.DB.First(&customer, "id = ?", site.CustomerID)
		entries = append(entries, gin.H{
			"invoice":      invoice,
			"jobTitle":     task.Title,
			"jobSlug":      task.Slug,
			"customerName": customer.Name,
			"siteCity":     site.City,
		})
	}

	c.JSON(http.StatusOK, entries)
}

// GetInvoice shows one invoice with its items, job, site and customer
func GetInvoice(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	invoice, err := findUserInvoice(userID, c.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var task models.Task
	config.DB.First(&task, "id = ?", invoice.TaskID)
	var site models.Site
	config.DB.First(&site, "id = ?", task.SiteID)
	var customer models.Customer
	config.DB.First(&customer, "id = ?", site.CustomerID)

	c.JSON(http.StatusOK, gin.H{
		"invoice":  invoice,
		"job":      task,
		"site":     site,
		"customer": customer,
	})
}

// UpdateInvoice edits notes, status and line items. Replacing the items
// recomputes the total inside one transaction.
func UpdateInvoice(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input UpdateInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	invoice, err := findUserInvoice(userID, c.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Status != nil {
		invoice.Status = models.InvoiceStatus(*input.Status)
	}
	if input.Notes != nil {
		invoice.Notes = *input.Notes
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if input.Items != nil {
		if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&models.InvoiceItem{}).Error; err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to replace invoice items")
			return
		}
		items, total := buildItems(*input.Items)
		for i := range items {
			items[i].InvoiceID = invoice.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to replace invoice items")
			return
		}
		invoice.Total = total
		invoice.Items = items
	}

	if err := tx.Omit("Items").Save(&invoice).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update invoice")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, invoice)
}

// DeleteInvoice removes an invoice and its items
func DeleteInvoice(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	invoice, err := findUserInvoice(userID, c.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
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

	if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&models.InvoiceItem{}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete invoice items")
		return
	}
	if err := tx.Delete(&invoice).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete invoice")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, gin.H{"message": "Invoice deleted successfully"})
}

// nextInvoiceNumber suggests the next number in the INV-0001 series from the
// highest numeric suffix among the user's invoices. It is a suggestion only;
// creation still rejects duplicates.
func nextInvoiceNumber(userID uuid.UUID) (string, error) {
	var numbers []string
	err := config.DB.Model(&models.Invoice{}).
		Joins("JOIN tasks ON tasks.id = invoices.task_id").
		Joins("JOIN sites ON sites.id = tasks.site_id").
		Joins("JOIN customers ON customers.id = sites.customer_id").
		Where("customers.user_id = ?", userID).
		Pluck("invoices.number", &numbers).Error
	if err != nil {
		return "", err
	}

	max := 0
	for _, number := range numbers {
		suffix := strings.TrimPrefix(number, "INV-")
		if n, err := strconv.Atoi(suffix); err == nil && n > max {
			max = n
		}
	}
	return fmt.Sprintf("INV-%04d", max+1), nil
}

// GetNextInvoiceNumber returns the suggested number for a new invoice
func GetNextInvoiceNumber(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	number, err := nextInvoiceNumber(userID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute invoice number")
		return
	}

	c.JSON(http.StatusOK, gin.H{"number": number})
}

// GetInvoiceDocument returns the printable payload: company details from the
// user profile, the customer, the serviced site, the job and the priced lines.
func GetInvoiceDocument(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	invoice, err := findUserInvoice(userID, c.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var user models.User
	config.DB.First(&user, "id = ?", userID)
	var task models.Task
	config.DB.First(&task, "id = ?", invoice.TaskID)
	var site models.Site
	config.DB.First(&site, "id = ?", task.SiteID)
	var customer models.Customer
	config.DB.First(&customer, "id = ?", site.CustomerID)

	c.JSON(http.StatusOK, gin.H{
		"invoice": invoice,
		"company": gin.H{
			"name":  user.CompanyName,
			"owner": user.Name,
			"phone": user.Phone,
			"email": user.Email,
		},
		"customer": customer,
		"site":     site,
		"job": gin.H{
			"title":       task.Title,
			"type":        string(task.Type),
			"scheduledAt": task.ScheduledAt,
			"completedAt": task.CompletedAt,
		},
		"issuedAt":   invoice.CreatedAt,
		"grandTotal": invoice.Total,
	})
}
