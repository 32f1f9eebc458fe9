package controllers_test

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/7499karthik/suvidhaa/controllers"
	"github.com/7499karthik/suvidhaa/middleware"
	"github.com/7499karthik/suvidhaa/models"
	"github.com/7499karthik/suvidhaa/routes"
	"github.com/7499karthik/suvidhaa/token"
)

func registerProviderBody() map[string]interface{} {
	return map[string]interface{}{
		"services":     []string{"plumbing", "pipe fitting"},
		"experience":   5,
		"location":     "Mumbai",
		"availability": "Mon-Sat 9-18",
	}
}

func TestRegisterProviderFlipsRole(t *testing.T) {
	env := newTestEnv(t)
	user, bearer := env.seedUser(t, "Binod Kumar", "binod@example.com", "customer")

	status, payload := env.post(t, "/api/providers/register", registerProviderBody(), bearer)

	require.Equal(t, http.StatusCreated, status)
	provider, ok := payload["provider"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, false, provider["verified"])
	assert.Equal(t, float64(0), provider["rating"])

	owner, ok := provider["user"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "provider", owner["role"])

	var storedUser models.User
	require.NoError(t, env.db.First(&storedUser, user.ID).Error)
	assert.Equal(t, models.RoleProvider, storedUser.Role)

	var storedProvider models.Provider
	require.NoError(t, env.db.Where("user_id = ?", user.ID).First(&storedProvider).Error)
	assert.Equal(t, models.ServiceList{"plumbing", "pipe fitting"}, storedProvider.Services)
	assert.False(t, storedProvider.Verified)
}

func TestRegisterProviderTwice(t *testing.T) {
	env := newTestEnv(t)
	_, bearer := env.seedUser(t, "Binod Kumar", "binod@example.com", "customer")

	status, _ := env.post(t, "/api/providers/register", registerProviderBody(), bearer)
	require.Equal(t, http.StatusCreated, status)

	status, payload := env.post(t, "/api/providers/register", registerProviderBody(), bearer)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "You are already registered as a provider", payload["message"])

	var count int64
	require.NoError(t, env.db.Model(&models.Provider{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRegisterProviderValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(body map[string]interface{})
		field  string
	}{
		{
			name:   "empty services",
			mutate: func(body map[string]interface{}) { body["services"] = []string{} },
			field:  "services",
		},
		{
			name:   "missing location",
			mutate: func(body map[string]interface{}) { delete(body, "location") },
			field:  "location",
		},
		{
			name:   "missing experience",
			mutate: func(body map[string]interface{}) { delete(body, "experience") },
			field:  "experience",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			_, bearer := env.seedUser(t, "Binod Kumar", "binod@example.com", "customer")

			body := registerProviderBody()
			tt.mutate(body)

			status, payload := env.post(t, "/api/providers/register", body, bearer)

			require.Equal(t, http.StatusBadRequest, status)
			fieldErrors, ok := payload["errors"].(map[string]interface{})
			require.True(t, ok)
			assert.Contains(t, fieldErrors, tt.field)
		})
	}
}

func TestListProvidersFilters(t *testing.T) {
	env := newTestEnv(t)

	mumbaiUser, _ := env.seedUser(t, "Binod Kumar", "binod@example.com", "provider")
	env.seedProvider(t, mumbaiUser, "Mumbai", []string{"Plumbing"}, true)

	delhiUser, _ := env.seedUser(t, "Deepa Iyer", "deepa@example.com", "provider")
	env.seedProvider(t, delhiUser, "Delhi", []string{"electrician"}, true)

	hiddenUser, _ := env.seedUser(t, "Gita Menon", "gita@example.com", "provider")
	env.seedProvider(t, hiddenUser, "Mumbai", []string{"cleaning"}, false)

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{name: "unverified providers stay hidden", query: "", want: 2},
		{name: "location is a substring match", query: "?location=mum", want: 1},
		{name: "service matches whole entries case-insensitively", query: "?service=plumbing", want: 1},
		{name: "partial service names do not match", query: "?service=plumb", want: 0},
		{name: "filters combine", query: "?location=delhi&service=plumbing", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, payload := env.get(t, "/api/providers"+tt.query, "")

			require.Equal(t, http.StatusOK, status)
			providers, ok := payload["providers"].([]interface{})
			require.True(t, ok)
			assert.Len(t, providers, tt.want)
		})
	}
}

func TestGetProvider(t *testing.T) {
	env := newTestEnv(t)
	user, _ := env.seedUser(t, "Binod Kumar", "binod@example.com", "provider")
	provider := env.seedProvider(t, user, "Mumbai", []string{"plumbing"}, true)

	status, payload := env.get(t, fmt.Sprintf("/api/providers/%d", provider.ID), "")

	require.Equal(t, http.StatusOK, status)
	fetched, ok := payload["provider"].(map[string]interface{})
	require.True(t, ok)
	owner, ok := fetched["user"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Binod Kumar", owner["fullName"])

	status, _ = env.get(t, "/api/providers/999", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = env.get(t, "/api/providers/not-a-number", "")
	assert.Equal(t, http.StatusNotFound, status)
}

type fakeUploader struct {
	url       string
	publicID  string
	folder    string
	callCount int
}

func (f *fakeUploader) Upload(_ context.Context, _ interface{}, publicID, folder string) (string, error) {
	f.callCount++
	f.publicID = publicID
	f.folder = folder
	return f.url, nil
}

func TestUploadAvatar(t *testing.T) {
	gdb := newTestDB(t)
	tokens := token.NewService(testSecret, time.Hour)
	uploader := &fakeUploader{url: "https://cdn.example.com/avatar.png"}

	app := fiber.New()
	protected := middleware.Protected(testSecret, nil)
	routes.SetupProviderRoutes(app, controllers.NewProviderController(gdb, uploader, zap.NewNop()), protected)
	env := &testEnv{app: app, db: gdb, tokens: tokens}

	user, bearer := env.seedUser(t, "Binod Kumar", "binod@example.com", "provider")
	provider := env.seedProvider(t, user, "Mumbai", []string{"plumbing"}, true)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("avatar", "avatar.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("not a real png"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/providers/me/avatar", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, uploader.callCount)
	assert.Equal(t, "provider_avatars", uploader.folder)
	assert.Contains(t, uploader.publicID, fmt.Sprintf("provider_%d_", provider.ID))

	var stored models.Provider
	require.NoError(t, gdb.First(&stored, provider.ID).Error)
	assert.Equal(t, "https://cdn.example.com/avatar.png", stored.AvatarURL)
}

func TestUploadAvatarWithoutProfile(t *testing.T) {
	env := newTestEnv(t)
	_, bearer := env.seedUser(t, "Asha Rao", "asha@example.com", "customer")

	status, payload := env.post(t, "/api/providers/me/avatar", nil, bearer)

	require.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Provider profile not found", payload["message"])
}

func TestCreateReviewUpdatesAggregates(t *testing.T) {
	env := newTestEnv(t)

	providerUser, _ := env.seedUser(t, "Binod Kumar", "binod@example.com", "provider")
	provider := env.seedProvider(t, providerUser, "Mumbai", []string{"plumbing"}, true)

	_, firstToken := env.seedUser(t, "Asha Rao", "asha@example.com", "customer")
	_, secondToken := env.seedUser(t, "Chitra Nair", "chitra@example.com", "customer")

	reviewPath := fmt.Sprintf("/api/providers/%d/reviews", provider.ID)

	status, _ := env.post(t, reviewPath, map[string]interface{}{
		"rating":  4,
		"comment": "Solid work, arrived on time.",
	}, firstToken)
	require.Equal(t, http.StatusCreated, status)

	status, _ = env.post(t, reviewPath, map[string]interface{}{
		"rating": 5,
	}, secondToken)
	require.Equal(t, http.StatusCreated, status)

	var stored models.Provider
	require.NoError(t, env.db.First(&stored, provider.ID).Error)
	assert.Equal(t, 4.5, stored.Rating)
	assert.Equal(t, uint(2), stored.TotalReviews)
}

func TestCreateReviewOncePerCustomer(t *testing.T) {
	env := newTestEnv(t)

	providerUser, _ := env.seedUser(t, "Binod Kumar", "binod@example.com", "provider")
	provider := env.seedProvider(t, providerUser, "Mumbai", []string{"plumbing"}, true)
	_, bearer := env.seedUser(t, "Asha Rao", "asha@example.com", "customer")

	reviewPath := fmt.Sprintf("/api/providers/%d/reviews", provider.ID)

	status, _ := env.post(t, reviewPath, map[string]interface{}{"rating": 4}, bearer)
	require.Equal(t, http.StatusCreated, status)

	status, payload := env.post(t, reviewPath, map[string]interface{}{"rating": 2}, bearer)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "You have already reviewed this provider", payload["message"])

	var stored models.Provider
	require.NoError(t, env.db.First(&stored, provider.ID).Error)
	assert.Equal(t, 4.0, stored.Rating)
	assert.Equal(t, uint(1), stored.TotalReviews)
}

func TestCreateReviewValidation(t *testing.T) {
	env := newTestEnv(t)

	providerUser, _ := env.seedUser(t, "Binod Kumar", "binod@example.com", "provider")
	provider := env.seedProvider(t, providerUser, "Mumbai", []string{"plumbing"}, true)
	_, bearer := env.seedUser(t, "Asha Rao", "asha@example.com", "customer")

	reviewPath := fmt.Sprintf("/api/providers/%d/reviews", provider.ID)

	for _, rating := range []interface{}{0, 6, -1} {
		status, payload := env.post(t, reviewPath, map[string]interface{}{"rating": rating}, bearer)

		require.Equal(t, http.StatusBadRequest, status, "rating %v must be rejected", rating)
		fieldErrors, ok := payload["errors"].(map[string]interface{})
		require.True(t, ok)
		assert.Contains(t, fieldErrors, "rating")
	}
}

func TestCreateReviewUnknownProvider(t *testing.T) {
	env := newTestEnv(t)
	_, bearer := env.seedUser(t, "Asha Rao", "asha@example.com", "customer")

	status, _ := env.post(t, "/api/providers/999/reviews", map[string]interface{}{"rating": 4}, bearer)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestListReviews(t *testing.T) {
	env := newTestEnv(t)

	providerUser, _ := env.seedUser(t, "Binod Kumar", "binod@example.com", "provider")
	provider := env.seedProvider(t, providerUser, "Mumbai", []string{"plumbing"}, true)
	reviewer, _ := env.seedUser(t, "Asha Rao", "asha@example.com", "customer")

	review := models.Review{
		ProviderID: provider.ID,
		CustomerID: reviewer.ID,
		Rating:     5,
		Comment:    "Great service.",
	}
	require.NoError(t, env.db.Create(&review).Error)

	// A review for another provider must not leak in.
	otherUser, _ := env.seedUser(t, "Deepa Iyer", "deepa@example.com", "provider")
	otherProvider := env.seedProvider(t, otherUser, "Delhi", []string{"electrician"}, true)
	require.NoError(t, env.db.Create(&models.Review{
		ProviderID: otherProvider.ID,
		CustomerID: reviewer.ID,
		Rating:     1,
	}).Error)

	status, payload := env.get(t, fmt.Sprintf("/api/providers/%d/reviews", provider.ID), "")

	require.Equal(t, http.StatusOK, status)
	reviews, ok := payload["reviews"].([]interface{})
	require.True(t, ok)
	require.Len(t, reviews, 1)

	got := reviews[0].(map[string]interface{})
	assert.Equal(t, float64(5), got["rating"])
	customer, ok := got["customer"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Asha Rao", customer["fullName"])
}
