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

// CreateAssetInput defines the expected JSON structure for creating an asset
type CreateAssetInput struct {
	SiteID       uuid.UUID `json:"siteId" binding:"required"`
	AssetBrandID uuid.UUID `json:"brandId" binding:"required"`
	AssetModelID uuid.UUID `json:"modelId" binding:"required"`
	Name         string    `json:"name" binding:"required"`
	InstalledOn  string    `json:"installedOn"` // YYYY-MM-DD
	SerialNumber string    `json:"serialNumber"`
}

// UpdateAssetInput defines the expected JSON structure for updating an asset
type UpdateAssetInput struct {
	AssetBrandID *uuid.UUID `json:"brandId"`
	AssetModelID *uuid.UUID `json:"modelId"`
	Name         *string    `json:"name"`
	InstalledOn  *string    `json:"installedOn"`
	SerialNumber *string    `json:"serialNumber"`
}

// lastServicedLabel returns the completion date of the most recent completed
// job on the asset, or the not-serviced sentinel.
func lastServicedLabel(assetID uuid.UUID) string {
	var task models.Task
	err := config.DB.Joins("JOIN asset_tasks ON asset_tasks.task_id = tasks.id").
		Where("asset_tasks.asset_id = ? AND tasks.status = ? AND tasks.completed_at IS NOT NULL",
			assetID, models.TaskStatusCompleted).
		Order("tasks.completed_at DESC").
		First(&task).Error
	if err != nil || task.CompletedAt == nil {
		return "Never serviced"
	}
	return task.CompletedAt.Format("Jan 2, 2006")
}

// findUserAsset loads an asset by slug through the site -> customer -> user chain
func findUserAsset(userID uuid.UUID, slug string) (models.Asset, error) {
	var asset models.Asset
	err := config.DB.Preload("Brand").Preload("Model").
		Joins("JOIN sites ON sites.id = assets.site_id").
		Joins("JOIN customers ON customers.id = sites.customer_id").
		Where("customers.user_id = ? AND assets.slug = ?", userID, slug).
		First(&asset).Error
	return asset, err
}

// CreateAsset registers a piece of equipment at one of the user's sites
func CreateAsset(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input CreateAssetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// The site must belong to the current user
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

	// The model must belong to the chosen brand
	var model models.AssetModel
	if err := config.DB.Where("id = ? AND asset_brand_id = ?", input.AssetModelID, input.AssetBrandID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Model not found for this brand")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	asset := models.Asset{
		SiteID:       site.ID,
		AssetBrandID: input.AssetBrandID,
		AssetModelID: input.AssetModelID,
		Name:         input.Name,
		SerialNumber: input.SerialNumber,
	}

	if input.InstalledOn != "" {
		installed, err := time.Parse("2006-01-02", input.InstalledOn)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid installedOn date")
			return
		}
		asset.InstalledOn = &installed
	}

	if err := config.DB.Create(&asset).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create asset")
		return
	}

	c.JSON(http.StatusCreated, asset)
}

// GetAsset shows one asset with brand/model names, last-serviced date and the
// full service history carried on its asset-task links.
func GetAsset(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	asset, err := findUserAsset(userID, c.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Asset not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var history []models.AssetTask
	if err := config.DB.Preload("Task").
		Joins("JOIN tasks ON tasks.id = asset_tasks.task_id").
		Where("asset_tasks.asset_id = ?", asset.ID).
		Order("tasks.scheduled_at DESC").
		Find(&history).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve service history")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"asset":        asset,
		"brandName":    asset.Brand.Name,
		"modelName":    asset.Model.Name,
		"lastServiced": lastServicedLabel(asset.ID),
		"history":      history,
	})
}

// UpdateAsset updates an existing asset. The slug is not regenerated.
func UpdateAsset(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input UpdateAssetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	asset, err := findUserAsset(userID, c.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Asset not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.AssetBrandID != nil {
		asset.AssetBrandID = *input.AssetBrandID
	}
	if input.AssetModelID != nil {
		asset.AssetModelID = *input.AssetModelID
	}

	// Brand and model must still agree after a partial update
	if input.AssetBrandID != nil || input.AssetModelID != nil {
		var model models.AssetModel
		if err := config.DB.Where("id = ? AND asset_brand_id = ?", asset.AssetModelID, asset.AssetBrandID).
			First(&model).Error; err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Model not found for this brand")
			return
		}
	}

	if input.Name != nil {
		asset.Name = *input.Name
	}
	if input.SerialNumber != nil {
		asset.SerialNumber = *input.SerialNumber
	}
	if input.InstalledOn != nil {
		if *input.InstalledOn == "" {
			asset.InstalledOn = nil
		} else {
			installed, err := time.Parse("2006-01-02", *input.InstalledOn)
			if err != nil {
				utils.RespondWithError(c, http.StatusBadRequest, "Invalid installedOn date")
				return
			}
			asset.InstalledOn = &installed
		}
	}

	if err := config.DB.Save(&asset).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update asset")
		return
	}

	c.JSON(http.StatusOK, asset)
}

// DeleteAsset removes an asset and its task links
func DeleteAsset(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	asset, err := findUserAsset(userID, c.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Asset not found")
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

	if err := tx.Where("asset_id = ?", asset.ID).Delete(&models.AssetTask{}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete asset links")
		return
	}

	if err := tx.Delete(&asset).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete asset")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, gin.H{"message": "Asset deleted successfully"})
}
