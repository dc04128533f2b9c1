package controllers

import (
	"errors"
	"hvacpro-backend/config"
	"hvacpro-backend/models"
	"hvacpro-backend/utils"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateSiteInput defines the expected JSON structure for creating a site
type CreateSiteInput struct {
	CustomerID   uuid.UUID `json:"customerId" binding:"required"`
	AddressLine1 string    `json:"addressLine1" binding:"required"`
	AddressLine2 string    `json:"addressLine2"`
	Postcode     string    `json:"postcode" binding:"required"`
	City         string    `json:"city" binding:"required"`
	Notes        string    `json:"notes"`
}

// UpdateSiteInput defines the expected JSON structure for updating a site
type UpdateSiteInput struct {
	AddressLine1 *string `json:"addressLine1"`
	AddressLine2 *string `json:"addressLine2"`
	Postcode     *string `json:"postcode"`
	City         *string `json:"city"`
	Notes        *string `json:"notes"`
}

// deleteSiteDependents removes everything hanging off the given sites: tasks,
// assets, asset-task links, invoices and invoice items. Runs inside the
// caller's transaction; the sites themselves are left to the caller.
func deleteSiteDependents(tx *gorm.DB, siteIDs *gorm.DB) error {
	taskIDs := tx.Model(&models.Task{}).Select("id").Where("site_id IN (?)", siteIDs)
	assetIDs := tx.Model(&models.Asset{}).Select("id").Where("site_id IN (?)", siteIDs)
	invoiceIDs := tx.Model(&models.Invoice{}).Select("id").Where("task_id IN (?)", taskIDs)

	if err := tx.Where("invoice_id IN (?)", invoiceIDs).Delete(&models.InvoiceItem{}).Error; err != nil {
		return err
	}
	if err := tx.Where("task_id IN (?)", taskIDs).Delete(&models.Invoice{}).Error; err != nil {
		return err
	}
	if err := tx.Where("task_id IN (?)", taskIDs).Delete(&models.AssetTask{}).Error; err != nil {
		return err
	}
	if err := tx.Where("asset_id IN (?)", assetIDs).Delete(&models.AssetTask{}).Error; err != nil {
		return err
	}
	if err := tx.Where("site_id IN (?)", siteIDs).Delete(&models.Task{}).Error; err != nil {
		return err
	}
	return tx.Where("site_id IN (?)", siteIDs).Delete(&models.Asset{}).Error
}

// findUserSite loads a site by slug, walking the ownership chain back to the
// user. Lookups outside the chain report not-found rather than leaking existence.
func findUserSite(userID uuid.UUID, slug string) (models.Site, error) {
	var site models.Site
	err := config.DB.Joins("JOIN customers ON customers.id = sites.customer_id").
		Where("customers.user_id = ? AND sites.slug = ?", userID, slug).
		First(&site).Error
	return site, err
}

// CreateSite creates a new site for one of the current user's customers
func CreateSite(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input CreateSiteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// The customer must belong to the current user
	var customer models.Customer
	if err := config.DB.Where("user_id = ? AND id = ?", userID, input.CustomerID).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	site := models.Site{
		CustomerID:   customer.ID,
		AddressLine1: input.AddressLine1,
		AddressLine2: input.AddressLine2,
		Postcode:     input.Postcode,
		City:         input.City,
		Notes:        input.Notes,
	}

	if err := config.DB.Create(&site).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create site")
		return
	}

	c.JSON(http.StatusCreated, site)
}

// GetSite shows one site with its assets (including brand and model names,
// via relation, not stored) and job history.
func GetSite(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	site, err := findUserSite(userID, c.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Site not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var customer models.Customer
	config.DB.First(&customer, "id = ?", site.CustomerID)

	var assets []models.Asset
	if err := config.DB.Preload("Brand").Preload("Model").
		Where("site_id = ?", site.ID).Order("name").Find(&assets).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve assets")
		return
	}

	assetEntries := make([]gin.H, 0, len(assets))
	for _, asset := range assets {
		assetEntries = append(assetEntries, gin.H{
			"asset":        asset,
			"brandName":    asset.Brand.Name,
			"modelName":    asset.Model.Name,
			"lastServiced": lastServicedLabel(asset.ID),
		})
	}

	var tasks []models.Task
	if err := config.DB.Where("site_id = ?", site.ID).
		Order("scheduled_at DESC").Find(&tasks).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve jobs")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"site":        site,
		"customer":    customer,
		"assets":      assetEntries,
		"assetsCount": len(assets),
		"jobs":        tasks,
		"jobsCount":   len(tasks),
	})
}

// UpdateSite updates an existing site. The slug is not regenerated.
func UpdateSite(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input UpdateSiteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	site, err := findUserSite(userID, c.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Site not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.AddressLine1 != nil {
		site.AddressLine1 = *input.AddressLine1
	}
	if input.AddressLine2 != nil {
		site.AddressLine2 = *input.AddressLine2
	}
	if input.Postcode != nil {
		site.Postcode = *input.Postcode
	}
	if input.City != nil {
		site.City = *input.City
	}
	if input.Notes != nil {
		site.Notes = *input.Notes
	}

	if err := config.DB.Save(&site).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update site")
		return
	}

	c.JSON(http.StatusOK, site)
}

// DeleteSite removes a site with its assets, tasks and their invoices
func DeleteSite(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	site, err := findUserSite(userID, c.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Site not found")
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

	siteIDs := tx.Model(&models.Site{}).Select("id").Where("id = ?", site.ID)
	if err := deleteSiteDependents(tx, siteIDs); err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete site data")
		return
	}

	if err := tx.Delete(&site).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete site")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, gin.H{"message": "Site deleted successfully"})
}
