package controllers_test

import (
	"net/http"
	"testing"

	"hvacpro-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func TestCreateTaskSlugAndSchedule(t *testing.T) {
	r := setupRouter(t)
	_, token := createUser(t, "owner@coolair.test")
	_, site := seedSite(t, r, token)

	task := seedTask(t, r, token, site, "Spring tune-up", "2025-03-14")
	if task.Slug != "spring-tune-up-2025-03-14" {
		t.Fatalf("expected slug spring-tune-up-2025-03-14, got %q", task.Slug)
	}
	if task.Status != models.TaskStatusScheduled {
		t.Fatalf("expected default status scheduled, got %q", task.Status)
	}
	if got := task.ScheduledAt.Format("2006-01-02 15:04"); got != "2025-03-14 10:30" {
		t.Fatalf("expected scheduled at 2025-03-14 10:30, got %q", got)
	}
}

func TestCreateTaskRejectsUnknownType(t *testing.T) {
	r := setupRouter(t)
	_, token := createUser(t, "owner@coolair.test")
	_, site := seedSite(t, r, token)

	w := doJSON(t, r, http.MethodPost, "/api/tasks", token, gin.H{
		"siteId":        site.ID,
		"type":          "demolition",
		"title":         "Not a thing",
		"scheduledDate": "2025-03-14",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown type, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUpdateTaskCompletedAt(t *testing.T) {
	r := setupRouter(t)
	_, token := createUser(t, "owner@coolair.test")
	_, site := seedSite(t, r, token)
	task := seedTask(t, r, token, site, "Spring tune-up", "2025-03-14")

	// Completing through the edit flow stamps completed_at
	w := doJSON(t, r, http.MethodPut, "/api/tasks/"+task.Slug, token, gin.H{
		"status": "completed",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var updated models.Task
	decode(t, w, &updated)
	if updated.CompletedAt == nil {
		t.Fatal("expected completed_at to be set")
	}
	if updated.Status != models.TaskStatusCompleted {
		t.Fatalf("expected status completed, got %q", updated.Status)
	}

	// Moving away from completed clears it again
	w = doJSON(t, r, http.MethodPut, "/api/tasks/"+task.Slug, token, gin.H{
		"status": "in_progress",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	decode(t, w, &updated)
	if updated.CompletedAt != nil {
		t.Fatal("expected completed_at to be cleared")
	}
}

func TestTaskStatusShortcutLeavesCompletedAtAlone(t *testing.T) {
	r := setupRouter(t)
	_, token := createUser(t, "owner@coolair.test")
	_, site := seedSite(t, r, token)
	task := seedTask(t, r, token, site, "Spring tune-up", "2025-03-14")

	w := doJSON(t, r, http.MethodPatch, "/api/tasks/"+task.Slug+"/status", token, gin.H{
		"status": "completed",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var updated models.Task
	decode(t, w, &updated)
	if updated.Status != models.TaskStatusCompleted {
		t.Fatalf("expected status completed, got %q", updated.Status)
	}
	if updated.CompletedAt != nil {
		t.Fatal("status shortcut must not stamp completed_at")
	}
}

func TestTaskSlugNotRegeneratedOnReschedule(t *testing.T) {
	r := setupRouter(t)
	_, token := createUser(t, "owner@coolair.test")
	_, site := seedSite(t, r, token)
	task := seedTask(t, r, token, site, "Spring tune-up", "2025-03-14")

	w := doJSON(t, r, http.MethodPut, "/api/tasks/"+task.Slug, token, gin.H{
		"scheduledDate": "2025-03-21",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var updated models.Task
	decode(t, w, &updated)
	if updated.Slug != task.Slug {
		t.Fatalf("slug changed on reschedule: %q -> %q", task.Slug, updated.Slug)
	}
}

func TestTaskListFilters(t *testing.T) {
	r := setupRouter(t)
	_, token := createUser(t, "owner@coolair.test")
	_, site := seedSite(t, r, token)
	seedTask(t, r, token, site, "Spring tune-up", "2025-03-14")
	done := seedTask(t, r, token, site, "Compressor swap", "2025-03-15")

	doJSON(t, r, http.MethodPatch, "/api/tasks/"+done.Slug+"/status", token, gin.H{"status": "completed"})

	w := doJSON(t, r, http.MethodGet, "/api/tasks?status=completed", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var tasks []models.Task
	decode(t, w, &tasks)
	if len(tasks) != 1 || tasks[0].Slug != done.Slug {
		t.Fatalf("expected only the completed job, got %d entries", len(tasks))
	}

	w = doJSON(t, r, http.MethodGet, "/api/tasks?status=bogus", token, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad status filter, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/tasks?search=Compressor", token, nil)
	decode(t, w, &tasks)
	if len(tasks) != 1 || tasks[0].Slug != done.Slug {
		t.Fatalf("expected search to match one job, got %d entries", len(tasks))
	}
}

func seedAsset(t *testing.T, r *gin.Engine, token string, site models.Site) models.Asset {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/brands", token, gin.H{"name": "Daikin"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating brand, got %d: %s", w.Code, w.Body.String())
	}
	var brand models.AssetBrand
	decode(t, w, &brand)

	w = doJSON(t, r, http.MethodPost, "/api/brands/"+brand.Slug+"/models", token, gin.H{"name": "FTXM50"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating model, got %d: %s", w.Code, w.Body.String())
	}
	var model models.AssetModel
	decode(t, w, &model)

	w = doJSON(t, r, http.MethodPost, "/api/assets", token, gin.H{
		"siteId":       site.ID,
		"brandId":      brand.ID,
		"modelId":      model.ID,
		"name":         "Rooftop Unit",
		"serialNumber": "SN-100",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating asset, got %d: %s", w.Code, w.Body.String())
	}
	var asset models.Asset
	decode(t, w, &asset)
	return asset
}

func TestLinkAssetToTask(t *testing.T) {
	r := setupRouter(t)
	_, token := createUser(t, "owner@coolair.test")
	_, site := seedSite(t, r, token)
	task := seedTask(t, r, token, site, "Spring tune-up", "2025-03-14")
	asset := seedAsset(t, r, token, site)

	w := doJSON(t, r, http.MethodPost, "/api/tasks/"+task.Slug+"/assets", token, gin.H{
		"assetId":         asset.ID,
		"serviceNotes":    "Cleaned coils",
		"conditionBefore": "fair",
		"conditionAfter":  "good",
		"filterChanged":   true,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 linking asset, got %d: %s", w.Code, w.Body.String())
	}

	// Linking the same pair again conflicts
	w = doJSON(t, r, http.MethodPost, "/api/tasks/"+task.Slug+"/assets", token, gin.H{
		"assetId": asset.ID,
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate link, got %d: %s", w.Code, w.Body.String())
	}

	// Edit the service detail on the link
	hours := 1.5
	w = doJSON(t, r, http.MethodPut, "/api/tasks/"+task.Slug+"/assets/"+asset.Slug, token, gin.H{
		"laborHours":   hours,
		"serviceNotes": "Cleaned coils, replaced filter",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 updating link, got %d: %s", w.Code, w.Body.String())
	}
	var link models.AssetTask
	decode(t, w, &link)
	if link.LaborHours == nil || *link.LaborHours != hours {
		t.Fatalf("expected labor hours %v, got %v", hours, link.LaborHours)
	}

	// Unlink and confirm a second unlink 404s
	w = doJSON(t, r, http.MethodDelete, "/api/tasks/"+task.Slug+"/assets/"+asset.Slug, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 unlinking, got %d: %s", w.Code, w.Body.String())
	}
	w = doJSON(t, r, http.MethodDelete, "/api/tasks/"+task.Slug+"/assets/"+asset.Slug, token, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing link, got %d", w.Code)
	}
}

func TestLinkAssetRejectsForeignAsset(t *testing.T) {
	r := setupRouter(t)
	_, token := createUser(t, "owner@coolair.test")
	_, site := seedSite(t, r, token)
	task := seedTask(t, r, token, site, "Spring tune-up", "2025-03-14")

	w := doJSON(t, r, http.MethodPost, "/api/tasks/"+task.Slug+"/assets", token, gin.H{
		"assetId": uuid.New(),
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown asset, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDeleteTaskRemovesInvoice(t *testing.T) {
	r := setupRouter(t)
	_, token := createUser(t, "owner@coolair.test")
	_, site := seedSite(t, r, token)
	task := seedTask(t, r, token, site, "Spring tune-up", "2025-03-14")

	w := doJSON(t, r, http.MethodPost, "/api/invoices", token, gin.H{
		"taskId": task.ID,
		"number": "INV-0001",
		"items":  []gin.H{{"description": "Labour", "quantity": 1, "unitPrice": 95.0}},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating invoice, got %d: %s", w.Code, w.Body.String())
	}
	var invoice models.Invoice
	decode(t, w, &invoice)

	w = doJSON(t, r, http.MethodDelete, "/api/tasks/"+task.Slug, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 deleting job, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/invoices/"+invoice.Slug, token, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for deleted invoice, got %d", w.Code)
	}
}
