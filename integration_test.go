package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/beartracks/config"
	"github.com/yeremiapane/beartracks/models"
	"github.com/yeremiapane/beartracks/utils"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	utils.SetLogOutput(io.Discard)
	os.Exit(m.Run())
}

func testConfig(t *testing.T, dsn string) config.Config {
	t.Helper()
	return config.Config{
		DBDriver:      "sqlite",
		DBDSN:         dsn,
		PollInterval:  time.Second,
		AdminEmail:    "admin@school.edu",
		AdminPassword: "admin-pass",
		AdminName:     "Admin User",
		CORSOrigin:    "*",
	}
}

type apiResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func call(t *testing.T, h http.Handler, method, path, token string, body interface{}, out interface{}) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if out != nil && w.Code < 300 {
		var resp apiResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
		require.NoError(t, json.Unmarshal(resp.Data, out))
	}
	return w.Code
}

type authData struct {
	Token string             `json:"token"`
	User  models.UserProfile `json:"user"`
}

// TestEndToEndIntegration walks the lost and found flow over HTTP:
// 1. two students sign up, the admin comes from configuration
// 2. U1 reports a found backpack
// 3. U2 claims it, both get a claim_submitted notification
// 4. the admin approves with a pickup location
// 5. after a restart on the same database everything is still there
func TestEndToEndIntegration(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "beartracks.db")
	a, err := newApp(testConfig(t, dsn))
	require.NoError(t, err)
	h := a.handler

	var u1, u2, admin authData
	require.Equal(t, http.StatusCreated, call(t, h, http.MethodPost, "/register", "", map[string]string{
		"email": "u1@school.edu", "password": "pw-one", "name": "U1", "gradeLevel": "10th Grade",
	}, &u1))
	require.Equal(t, http.StatusCreated, call(t, h, http.MethodPost, "/register", "", map[string]string{
		"email": "u2@x.com", "password": "pw-two", "name": "U2", "gradeLevel": "11th Grade",
	}, &u2))
	require.Equal(t, http.StatusOK, call(t, h, http.MethodPost, "/login", "", map[string]string{
		"email": "admin@school.edu", "password": "admin-pass",
	}, &admin))
	assert.Equal(t, models.RoleAdmin, admin.User.Role)

	var item models.FoundItem
	require.Equal(t, http.StatusCreated, call(t, h, http.MethodPost, "/items", u1.Token, map[string]string{
		"title": "Blue Backpack", "category": "Bags & Backpacks", "location": "Gym", "dateFound": "2024-10-28",
	}, &item))

	var browse []models.FoundItem
	require.Equal(t, http.StatusOK, call(t, h, http.MethodGet, "/items", "", nil, &browse))
	require.Len(t, browse, 1)
	assert.Equal(t, u1.User.ID, browse[0].SubmittedBy)

	var claim models.ClaimRequest
	require.Equal(t, http.StatusCreated, call(t, h, http.MethodPost, "/items/"+item.ID+"/claims", u2.Token, map[string]string{
		"message": "mine", "contactInfo": "u2@x.com",
	}, &claim))

	for _, token := range []string{u1.Token, u2.Token} {
		var notes []models.Notification
		require.Equal(t, http.StatusOK, call(t, h, http.MethodGet, "/notifications", token, nil, &notes))
		require.Len(t, notes, 1)
		assert.Equal(t, models.NotificationClaimSubmitted, notes[0].Type)
		assert.Equal(t, claim.ID, notes[0].ClaimID)
	}

	require.Equal(t, http.StatusOK, call(t, h, http.MethodPost, "/admin/claims/"+claim.ID+"/approve", admin.Token, map[string]string{
		"pickupLocation": "Main Office",
	}, &claim))
	assert.Equal(t, models.ClaimApproved, claim.Status)

	// restart on the same file
	b, err := newApp(testConfig(t, dsn))
	require.NoError(t, err)

	stored, err := b.services.Items.Get(item.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ItemClaimed, stored.Status)
	assert.Equal(t, u2.User.ID, stored.ClaimedBy)

	var notes []models.Notification
	require.Equal(t, http.StatusOK, call(t, b.handler, http.MethodGet, "/notifications", u2.Token, nil, &notes))
	require.Len(t, notes, 2)
	assert.Equal(t, models.NotificationClaimApproved, notes[0].Type)
	assert.Contains(t, notes[0].Message, "Main Office")

	// the admin was not created twice
	assert.Len(t, b.services.Users.List(), 3)
}

func TestNewAppRejectsUnknownDriver(t *testing.T) {
	cfg := testConfig(t, "ignored")
	cfg.DBDriver = "oracle"
	_, err := newApp(cfg)
	assert.Error(t, err)
}
