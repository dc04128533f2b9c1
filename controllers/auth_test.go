package controllers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRegisterLoginMe(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"email":       "owner@coolair.test",
		"password":    "password123",
		"name":        "Jordan",
		"companyName": "Cool Air Co",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var registered struct {
		Token string `json:"token"`
	}
	decode(t, w, &registered)
	if registered.Token == "" {
		t.Fatal("expected a token in the register response")
	}

	w = doJSON(t, r, http.MethodPost, "/auth/login", "", gin.H{
		"identifier": "owner@coolair.test",
		"password":   "password123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var logged struct {
		Token string `json:"token"`
		User  struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	decode(t, w, &logged)
	if logged.User.Email != "owner@coolair.test" {
		t.Fatalf("unexpected user email %q", logged.User.Email)
	}

	w = doJSON(t, r, http.MethodGet, "/auth/me", logged.Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from /auth/me, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r := setupRouter(t)
	createUser(t, "dup@coolair.test")

	w := doJSON(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"email":    "dup@coolair.test",
		"password": "password123",
		"name":     "Second",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestLoginWrongPassword(t *testing.T) {
	r := setupRouter(t)
	createUser(t, "owner@coolair.test")

	w := doJSON(t, r, http.MethodPost, "/auth/login", "", gin.H{
		"identifier": "owner@coolair.test",
		"password":   "not-the-password",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAPIRequiresToken(t *testing.T) {
	r := setupRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/customers", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
}
