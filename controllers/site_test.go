package controllers_test

import (
	"net/http"
	"testing"

	"hvacpro-backend/models"

	"github.com/gin-gonic/gin"
)

func TestSiteSlugScopedPerCustomer(t *testing.T) {
	r := setupRouter(t)
	_, token := createUser(t, "owner@coolair.test")
	customerA, siteA := seedSite(t, r, token)

	// A second customer can reuse the same address slug
	w := doJSON(t, r, http.MethodPost, "/api/customers", token, gin.H{
		"name":  "Beta Properties",
		"phone": "+15559876543",
	})
	var customerB models.Customer
	decode(t, w, &customerB)

	w = doJSON(t, r, http.MethodPost, "/api/sites", token, gin.H{
		"customerId":   customerB.ID,
		"addressLine1": "12 Harbour Road",
		"postcode":     "4000",
		"city":         "Brisbane",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var siteB models.Site
	decode(t, w, &siteB)

	if siteA.Slug != siteB.Slug {
		t.Fatalf("expected identical slugs across customers, got %q and %q", siteA.Slug, siteB.Slug)
	}

	// Within the same customer the slug gets a suffix instead
	w = doJSON(t, r, http.MethodPost, "/api/sites", token, gin.H{
		"customerId":   customerA.ID,
		"addressLine1": "12 Harbour Road",
		"postcode":     "4000",
		"city":         "Brisbane",
	})
	var siteA2 models.Site
	decode(t, w, &siteA2)
	if siteA2.Slug != siteA.Slug+"-2" {
		t.Fatalf("expected suffixed slug %q, got %q", siteA.Slug+"-2", siteA2.Slug)
	}
}

func TestCreateSiteForForeignCustomer(t *testing.T) {
	r := setupRouter(t)
	_, ownerToken := createUser(t, "owner@coolair.test")
	_, otherToken := createUser(t, "other@rival.test")
	customer, _ := seedSite(t, r, ownerToken)

	w := doJSON(t, r, http.MethodPost, "/api/sites", otherToken, gin.H{
		"customerId":   customer.ID,
		"addressLine1": "1 Intruder Street",
		"postcode":     "4000",
		"city":         "Brisbane",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign customer, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGetSiteShowsAssetsAndJobs(t *testing.T) {
	r := setupRouter(t)
	_, token := createUser(t, "owner@coolair.test")
	_, site := seedSite(t, r, token)
	asset := seedAsset(t, r, token, site)
	task := seedTask(t, r, token, site, "Spring tune-up", "2025-03-14")

	// Complete the job with the asset linked so last-serviced resolves
	doJSON(t, r, http.MethodPost, "/api/tasks/"+task.Slug+"/assets", token, gin.H{"assetId": asset.ID})
	w := doJSON(t, r, http.MethodPut, "/api/tasks/"+task.Slug, token, gin.H{"status": "completed"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 completing job, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/sites/"+site.Slug, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var payload struct {
		AssetsCount int `json:"assetsCount"`
		JobsCount   int `json:"jobsCount"`
		Assets      []struct {
			BrandName    string `json:"brandName"`
			ModelName    string `json:"modelName"`
			LastServiced string `json:"lastServiced"`
		} `json:"assets"`
	}
	decode(t, w, &payload)
	if payload.AssetsCount != 1 || payload.JobsCount != 1 {
		t.Fatalf("expected 1 asset and 1 job, got %d and %d", payload.AssetsCount, payload.JobsCount)
	}
	if payload.Assets[0].BrandName != "Daikin" || payload.Assets[0].ModelName != "FTXM50" {
		t.Fatalf("unexpected brand/model: %q %q", payload.Assets[0].BrandName, payload.Assets[0].ModelName)
	}
	if payload.Assets[0].LastServiced == "Never serviced" {
		t.Fatal("expected a last-serviced date after completing a linked job")
	}
}
