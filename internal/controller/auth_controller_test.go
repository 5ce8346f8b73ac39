package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mentha_backend/internal/middleware"
	"mentha_backend/internal/model"
)

func authApp() *fiber.App {
	app := fiber.New()
	app.Post("/api/auth/register", Register)
	app.Post("/api/auth/login", Login)
	app.Get("/api/me", middleware.AuthMiddleware(), GetMe)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}, token string) *http.Response {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func TestRegisterCreatesUserWithUsername(t *testing.T) {
	db := setupTestDB(t)
	app := authApp()

	resp := postJSON(t, app, "/api/auth/register", RegisterInput{
		Email:       "ada@acme.com",
		Password:    "secret123",
		CompanyName: "Acme Labs!",
	}, "")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.NotEmpty(t, body["token"])

	var user model.User
	require.NoError(t, db.Where("email = ?", "ada@acme.com").First(&user).Error)
	assert.Equal(t, "acme-labs", user.Username)
	assert.NotEqual(t, "secret123", user.Password) // hash'lenmiş olmalı
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	setupTestDB(t)
	app := authApp()

	input := RegisterInput{Email: "ada@acme.com", Password: "secret123", CompanyName: "Acme"}

	resp := postJSON(t, app, "/api/auth/register", input, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(t, app, "/api/auth/register", input, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLoginReturnsTokenAndRecordsHistory(t *testing.T) {
	db := setupTestDB(t)
	app := authApp()

	resp := postJSON(t, app, "/api/auth/register", RegisterInput{
		Email:       "ada@acme.com",
		Password:    "secret123",
		CompanyName: "Acme",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(t, app, "/api/auth/login", LoginInput{
		Email:    "ada@acme.com",
		Password: "secret123",
	}, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	token, _ := body["token"].(string)
	assert.NotEmpty(t, token)

	var historyCount int64
	db.Model(&model.LoginHistory{}).Count(&historyCount)
	assert.Equal(t, int64(1), historyCount)

	// Token korumalı endpoint'te çalışmalı
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	meResp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, meResp.StatusCode)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	setupTestDB(t)
	app := authApp()

	resp := postJSON(t, app, "/api/auth/register", RegisterInput{
		Email:       "ada@acme.com",
		Password:    "secret123",
		CompanyName: "Acme",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(t, app, "/api/auth/login", LoginInput{
		Email:    "ada@acme.com",
		Password: "wrong",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
