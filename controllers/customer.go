package controllers

import (
	"errors"
	"hvacpro-backend/config"
	"hvacpro-backend/models"
	"hvacpro-backend/utils"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateCustomerInput defines the expected JSON structure for creating a customer
type CreateCustomerInput struct {
	Name  string  `json:"name" binding:"required"`
	Phone string  `json:"phone" binding:"required"`
	Email *string `json:"email"` // Pointer to allow null
}

// UpdateCustomerInput defines the expected JSON structure for updating a customer
type UpdateCustomerInput struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	Email *string `json:"email"`
}

// CreateCustomer creates a new customer owned by the current user
func CreateCustomer(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input CreateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	customer := models.Customer{
		UserID: userID,
		Name:   input.Name,
		Phone:  input.Phone,
	}
	if input.Email != nil {
		customer.Email = *input.Email
	}

	if err := config.DB.Create(&customer).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create customer")
		return
	}

	c.JSON(http.StatusCreated, customer)
}

// GetCustomers lists the current user's customers, optionally filtered by a
// substring match over name, phone and email, with site and job counts.
func GetCustomers(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	query := config.DB.Where("user_id = ?", userID)
	if search := c.Query("search"); search != "" {
		term := "%" + search + "%"
		query = query.Where("name LIKE ? OR phone LIKE ? OR email LIKE ?", term, term, term)
	}

	var customers []models.Customer
	if err := query.Order("name").Find(&customers).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve customers")
		return
	}

	type customerEntry struct {
		models.Customer
		SitesCount int64 `json:"sitesCount"`
		JobsCount  int64 `json:"jobsCount"`
	}

	entries := make([]customerEntry, 0, len(customers))
	for _, customer := range customers {
		var sitesCount, jobsCount int64
		config.DB.Model(&models.Site{}).Where("customer_id = ?", customer.ID).Count(&sitesCount)
		config.DB.Model(&models.Task{}).
			Joins("JOIN sites ON sites.id = tasks.site_id").
			Where("sites.customer_id = ?", customer.ID).
			Count(&jobsCount)
		entries = append(entries, customerEntry{Customer: customer, SitesCount: sitesCount, JobsCount: jobsCount})
	}

	c.JSON(http.StatusOK, entries)
}

// GetCustomer shows one customer with its sites and job history. Jobs can be
// filtered with ?search= over title, description and site address.
func GetCustomer(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var customer models.Customer
	if err := config.DB.Where("user_id = ? AND slug = ?", userID, c.Param("slug")).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var sites []models.Site
	if err := config.DB.Where("customer_id = ?", customer.ID).
		Order("address_line_1").Find(&sites).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve sites")
		return
	}

	type siteEntry struct {
		models.Site
		AssetsCount int64 `json:"assetsCount"`
		JobsCount   int64 `json:"jobsCount"`
	}
	siteEntries := make([]siteEntry, 0, len(sites))
	for _, site := range sites {
		var assetsCount, jobsCount int64
		config.DB.Model(&models.Asset{}).Where("site_id = ?", site.ID).Count(&assetsCount)
		config.DB.Model(&models.Task{}).Where("site_id = ?", site.ID).Count(&jobsCount)
		siteEntries = append(siteEntries, siteEntry{Site: site, AssetsCount: assetsCount, JobsCount: jobsCount})
	}

	jobsQuery := config.DB.Preload("Site").
		Joins("JOIN sites ON sites.id = tasks.site_id").
		Where("sites.customer_id = ?", customer.ID)
	if search := c.Query("search"); search != "" {
		term := "%" + search + "%"
		jobsQuery = jobsQuery.Where(
			"tasks.title LIKE ? OR tasks.description LIKE ? OR sites.address_line_1 LIKE ? OR sites.city LIKE ?",
			term, term, term, term)
	}

	var jobs []models.Task
	if err := jobsQuery.Order("tasks.scheduled_at DESC").Find(&jobs).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve jobs")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customer": customer,
		"sites":    siteEntries,
		"jobs":     jobs,
	})
}

// UpdateCustomer updates an existing customer. The slug is not regenerated.
func UpdateCustomer(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input UpdateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var customer models.Customer
	if err := config.DB.Where("user_id = ? AND slug = ?", userID, c.Param("slug")).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		customer.Name = *input.Name
	}
	if input.Phone != nil {
		if !utils.ValidatePhone(*input.Phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
			return
		}
		customer.Phone = *input.Phone
	}
	if input.Email != nil {
		customer.Email = *input.Email
	}

	if err := config.DB.Save(&customer).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update customer")
		return
	}

	c.JSON(http.StatusOK, customer)
}

// DeleteCustomer removes a customer and everything below it: sites, assets,
// tasks, asset-task links, invoices and invoice items.
func DeleteCustomer(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var customer models.Customer
	if err := config.DB.Where("user_id = ? AND slug = ?", userID, c.Param("slug")).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
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

	siteIDs := tx.Model(&models.Site{}).Select("id").Where("customer_id = ?", customer.ID)
	if err := deleteSiteDependents(tx, siteIDs); err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete customer data")
		return
	}

	if err := tx.Where("customer_id = ?", customer.ID).Delete(&models.Site{}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete sites")
		return
	}

	if err := tx.Delete(&customer).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete customer")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
}
