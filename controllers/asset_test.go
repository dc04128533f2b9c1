package controllers_test

import (
	"net/http"
	"testing"

	"hvacpro-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func TestAssetSlugIncludesSerial(t *testing.T) {
	r := setupRouter(t)
	_, token := createUser(t, "owner@coolair.test")
	_, site := seedSite(t, r, token)
	asset := seedAsset(t, r, token, site)

	if asset.Slug != "rooftop-unit-sn-100" {
		t.Fatalf("expected slug rooftop-unit-sn-100, got %q", asset.Slug)
	}
}

func TestCreateAssetModelMustMatchBrand(t *testing.T) {
	r := setupRouter(t)
	_, token := createUser(t, "owner@coolair.test")
	_, site := seedSite(t, r, token)

	w := doJSON(t, r, http.MethodPost, "/api/brands", token, gin.H{"name": "Daikin"})
	var daikin models.AssetBrand
	decode(t, w, &daikin)
	w = doJSON(t, r, http.MethodPost, "/api/brands", token, gin.H{"name": "Mitsubishi"})
	var mitsubishi models.AssetBrand
	decode(t, w, &mitsubishi)

	w = doJSON(t, r, http.MethodPost, "/api/brands/"+daikin.Slug+"/models", token, gin.H{"name": "FTXM50"})
	var model models.AssetModel
	decode(t, w, &model)

	// Model belongs to Daikin, not Mitsubishi
	w = doJSON(t, r, http.MethodPost, "/api/assets", token, gin.H{
		"siteId":  site.ID,
		"brandId": mitsubishi.ID,
		"modelId": model.ID,
		"name":    "Rooftop Unit",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for brand/model mismatch, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGetAssetNeverServiced(t *testing.T) {
	r := setupRouter(t)
	_, token := createUser(t, "owner@coolair.test")
	_, site := seedSite(t, r, token)
	asset := seedAsset(t, r, token, site)

	w := doJSON(t, r, http.MethodGet, "/api/assets/"+asset.Slug, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var payload struct {
		LastServiced string `json:"lastServiced"`
		History      []struct {
			ServiceNotes string `json:"ServiceNotes"`
		} `json:"history"`
	}
	decode(t, w, &payload)
	if payload.LastServiced != "Never serviced" {
		t.Fatalf("expected Never serviced, got %q", payload.LastServiced)
	}
	if len(payload.History) != 0 {
		t.Fatalf("expected empty history, got %d entries", len(payload.History))
	}
}

func TestDuplicateBrandNameConflicts(t *testing.T) {
	r := setupRouter(t)
	_, token := createUser(t, "owner@coolair.test")

	w := doJSON(t, r, http.MethodPost, "/api/brands", token, gin.H{"name": "Daikin"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	w = doJSON(t, r, http.MethodPost, "/api/brands", token, gin.H{"name": "Daikin"})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate brand, got %d: %s", w.Code, w.Body.String())
	}
}

func TestModelSlugScopedPerBrand(t *testing.T) {
	r := setupRouter(t)
	_, token := createUser(t, "owner@coolair.test")

	w := doJSON(t, r, http.MethodPost, "/api/brands", token, gin.H{"name": "Daikin"})
	var daikin models.AssetBrand
	decode(t, w, &daikin)
	w = doJSON(t, r, http.MethodPost, "/api/brands", token, gin.H{"name": "Mitsubishi"})
	var mitsubishi models.AssetBrand
	decode(t, w, &mitsubishi)

	w = doJSON(t, r, http.MethodPost, "/api/brands/"+daikin.Slug+"/models", token, gin.H{"name": "Series 5"})
	var first models.AssetModel
	decode(t, w, &first)
	w = doJSON(t, r, http.MethodPost, "/api/brands/"+mitsubishi.Slug+"/models", token, gin.H{"name": "Series 5"})
	var second models.AssetModel
	decode(t, w, &second)

	if first.Slug != second.Slug {
		t.Fatalf("expected identical model slugs across brands, got %q and %q", first.Slug, second.Slug)
	}
}

func TestDeleteAssetRemovesLinks(t *testing.T) {
	r := setupRouter(t)
	_, token := createUser(t, "owner@coolair.test")
	_, site := seedSite(t, r, token)
	asset := seedAsset(t, r, token, site)
	task := seedTask(t, r, token, site, "Spring tune-up", "2025-03-14")

	doJSON(t, r, http.MethodPost, "/api/tasks/"+task.Slug+"/assets", token, gin.H{"assetId": asset.ID})

	w := doJSON(t, r, http.MethodDelete, "/api/assets/"+asset.Slug, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 deleting asset, got %d: %s", w.Code, w.Body.String())
	}

	// Job survives, link does not
	w = doJSON(t, r, http.MethodGet, "/api/tasks/"+task.Slug, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var payload struct {
		Assets []struct {
			AssetID uuid.UUID `json:"AssetID"`
		} `json:"assets"`
	}
	decode(t, w, &payload)
	if len(payload.Assets) != 0 {
		t.Fatalf("expected no linked assets after delete, got %d", len(payload.Assets))
	}
}
