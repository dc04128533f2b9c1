// controllers/catalog.go
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

// The brand/model catalog is global reference data shared across all users.
// Creating entries inline from the asset form is supported: the created brand
// or model is returned immediately so the form can select it.

// CreateBrandInput defines the expected JSON structure for creating a brand
type CreateBrandInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// UpdateBrandInput defines the expected JSON structure for updating a brand
type UpdateBrandInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

// CreateModelInput defines the expected JSON structure for creating a model
type CreateModelInput struct {
	Name             string   `json:"name" binding:"required"`
	Description      string   `json:"description"`
	ModelNumber      string   `json:"modelNumber"`
	BtuRating        *float64 `json:"btuRating" binding:"omitempty,min=0"`
	EfficiencyRating string   `json:"efficiencyRating"`
}

// UpdateModelInput defines the expected JSON structure for updating a model
type UpdateModelInput struct {
	Name             *string  `json:"name"`
	Description      *string  `json:"description"`
	ModelNumber      *string  `json:"modelNumber"`
	BtuRating        *float64 `json:"btuRating" binding:"omitempty,min=0"`
	EfficiencyRating *string  `json:"efficiencyRating"`
	IsActive         *bool    `json:"isActive"`
}

// GetBrands lists catalog brands with their models. By default only active
// entries are shown; ?active=false includes everything.
func GetBrands(c *gin.Context) {
	query := config.DB.Order("name")
	if c.DefaultQuery("active", "true") == "true" {
		query = query.Where("is_active = ?", true).
			Preload("Models", "is_active = ?", true)
	} else {
		query = query.Preload("Models")
	}

	var brands []models.AssetBrand
	if err := query.Find(&brands).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve brands")
		return
	}

	c.JSON(http.StatusOK, brands)
}

// CreateBrand creates a new catalog brand. Brand names are globally unique.
func CreateBrand(c *gin.Context) {
	var input CreateBrandInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var existing models.AssetBrand
	if err := config.DB.Where("name = ?", input.Name).First(&existing).Error; err == nil {
		utils.RespondWithError(c, http.StatusConflict, "Brand with this name already exists")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	brand := models.AssetBrand{
		Name:        input.Name,
		Description: input.Description,
		IsActive:    true,
	}

	if err := config.DB.Create(&brand).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create brand")
		return
	}

	c.JSON(http.StatusCreated, brand)
}

// GetBrand retrieves a single brand with all its models
func GetBrand(c *gin.Context) {
	var brand models.AssetBrand
	if err := config.DB.Preload("Models").Where("slug = ?", c.Param("slug")).
		First(&brand).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Brand not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, brand)
}

// UpdateBrand updates an existing brand. Deactivating a brand hides it from
// catalog browsing but does not affect assets that already reference it.
func UpdateBrand(c *gin.Context) {
	var input UpdateBrandInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var brand models.AssetBrand
	if err := config.DB.Where("slug = ?", c.Param("slug")).First(&brand).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Brand not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil && *input.Name != brand.Name {
		var existing models.AssetBrand
		if err := config.DB.Where("name = ?", *input.Name).First(&existing).Error; err == nil {
			utils.RespondWithError(c, http.StatusConflict, "Brand with this name already exists")
			return
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			return
		}
		brand.Name = *input.Name
	}
	if input.Description != nil {
		brand.Description = *input.Description
	}
	if input.IsActive != nil {
		brand.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&brand).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update brand")
		return
	}

	c.JSON(http.StatusOK, brand)
}

// GetBrandModels lists a brand's models. ?active=false includes inactive ones.
func GetBrandModels(c *gin.Context) {
	var brand models.AssetBrand
	if err := config.DB.Where("slug = ?", c.Param("slug")).First(&brand).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Brand not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	query := config.DB.Where("asset_brand_id = ?", brand.ID).Order("name")
	if c.DefaultQuery("active", "true") == "true" {
		query = query.Where("is_active = ?", true)
	}

	var brandModels []models.AssetModel
	if err := query.Find(&brandModels).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve models")
		return
	}

	c.JSON(http.StatusOK, brandModels)
}

// CreateBrandModel creates a new model under a brand
func CreateBrandModel(c *gin.Context) {
	var input CreateModelInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var brand models.AssetBrand
	if err := config.DB.Where("slug = ?", c.Param("slug")).First(&brand).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Brand not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	model := models.AssetModel{
		AssetBrandID:     brand.ID,
		Name:             input.Name,
		Description:      input.Description,
		ModelNumber:      input.ModelNumber,
		BtuRating:        input.BtuRating,
		EfficiencyRating: input.EfficiencyRating,
		IsActive:         true,
	}

	if err := config.DB.Create(&model).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create model")
		return
	}

	c.JSON(http.StatusCreated, model)
}

// UpdateBrandModel updates a model within a brand
func UpdateBrandModel(c *gin.Context) {
	var input UpdateModelInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var model models.AssetModel
	if err := config.DB.
		Joins("JOIN asset_brands ON asset_brands.id = asset_models.asset_brand_id").
		Where("asset_brands.slug = ? AND asset_models.slug = ?", c.Param("slug"), c.Param("modelSlug")).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Model not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		model.Name = *input.Name
	}
	if input.Description != nil {
		model.Description = *input.Description
	}
	if input.ModelNumber != nil {
		model.ModelNumber = *input.ModelNumber
	}
	if input.BtuRating != nil {
		model.BtuRating = input.BtuRating
	}
	if input.EfficiencyRating != nil {
		model.EfficiencyRating = *input.EfficiencyRating
	}
	if input.IsActive != nil {
		model.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&model).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update model")
		return
	}

	c.JSON(http.StatusOK, model)
}
