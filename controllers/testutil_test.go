package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"hvacpro-backend/config"
	"hvacpro-backend/models"
	"hvacpro-backend/routes"
	"hvacpro-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupRouter wires the full router against a fresh in-memory database named
// after the test, so parallel tests never share state.
func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Site{},
		&models.AssetBrand{},
		&models.AssetModel{},
		&models.Asset{},
		&models.Task{},
		&models.AssetTask{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.ReminderLog{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	config.DB = db
	return routes.SetupRouter()
}

// createUser inserts a user directly and returns it with a valid bearer token
func createUser(t *testing.T, email string) (models.User, string) {
	t.Helper()
	user := models.User{
		Email:       email,
		Password:    "password123",
		Name:        "Test Owner",
		Phone:       "+15550000001",
		CompanyName: "Cool Air Co",
	}
	if err := config.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	token, err := utils.GenerateToken(user.ID.String())
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return user, token
}

// doJSON performs a request with an optional bearer token and JSON body
func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
}

// seedSite creates a customer and site for the user, returning both
func seedSite(t *testing.T, r *gin.Engine, token string) (models.Customer, models.Site) {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/customers", token, gin.H{
		"name":  "Acme Facilities",
		"phone": "+15551234567",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating customer, got %d: %s", w.Code, w.Body.String())
	}
	var customer models.Customer
	decode(t, w, &customer)

	w = doJSON(t, r, http.MethodPost, "/api/sites", token, gin.H{
		"customerId":   customer.ID,
		"addressLine1": "12 Harbour Road",
		"postcode":     "4000",
		"city":         "Brisbane",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating site, got %d: %s", w.Code, w.Body.String())
	}
	var site models.Site
	decode(t, w, &site)
	return customer, site
}

// seedTask schedules a job at the given site
func seedTask(t *testing.T, r *gin.Engine, token string, site models.Site, title, date string) models.Task {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/tasks", token, gin.H{
		"siteId":        site.ID,
		"type":          "maintenance",
		"title":         title,
		"scheduledDate": date,
		"scheduledTime": "10:30",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating job, got %d: %s", w.Code, w.Body.String())
	}
	var task models.Task
	decode(t, w, &task)
	return task
}
