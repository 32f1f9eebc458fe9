package controllers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/7499karthik/suvidhaa/controllers"
	"github.com/7499karthik/suvidhaa/db"
	"github.com/7499karthik/suvidhaa/middleware"
	"github.com/7499karthik/suvidhaa/models"
	"github.com/7499karthik/suvidhaa/routes"
	"github.com/7499karthik/suvidhaa/token"
	"github.com/7499karthik/suvidhaa/utils"
)

const testSecret = "test-secret"

type testEnv struct {
	app    *fiber.App
	db     *gorm.DB
	tokens *token.Service
}

// newTestDB opens an isolated in-memory sqlite database. The pool is pinned
// to one connection so every query sees the same memory database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(gdb))
	return gdb
}

// newTestEnv wires the controllers and routes the same way main does, minus
// the external collaborators.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb := newTestDB(t)
	tokens := token.NewService(testSecret, time.Hour)
	log := zap.NewNop()

	app := fiber.New()
	protected := middleware.Protected(testSecret, nil)

	routes.SetupAuthRoutes(app, controllers.NewAuthController(gdb, tokens, nil, log), protected)
	routes.SetupBookingRoutes(app, controllers.NewBookingController(gdb, nil, log), protected)
	routes.SetupProviderRoutes(app, controllers.NewProviderController(gdb, nil, log), protected)
	routes.SetupContactRoutes(app, controllers.NewContactController(gdb, log), protected)
	routes.SetupDashboardRoutes(app, controllers.NewDashboardController(gdb, log), protected)

	return &testEnv{app: app, db: gdb, tokens: tokens}
}

// request performs an in-process HTTP call and decodes the JSON response.
func (e *testEnv) request(t *testing.T, method, path string, body interface{}, bearer string) (int, map[string]interface{}) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload map[string]interface{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &payload), "response body: %s", raw)
	}
	return resp.StatusCode, payload
}

func (e *testEnv) get(t *testing.T, path, bearer string) (int, map[string]interface{}) {
	t.Helper()
	return e.request(t, http.MethodGet, path, nil, bearer)
}

func (e *testEnv) post(t *testing.T, path string, body interface{}, bearer string) (int, map[string]interface{}) {
	t.Helper()
	return e.request(t, http.MethodPost, path, body, bearer)
}

func (e *testEnv) patch(t *testing.T, path string, body interface{}, bearer string) (int, map[string]interface{}) {
	t.Helper()
	return e.request(t, http.MethodPatch, path, body, bearer)
}

// seedUser inserts an account directly and mints a bearer for it. The
// password is always "password123".
func (e *testEnv) seedUser(t *testing.T, fullName, email, role string) (models.User, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		FullName: fullName,
		Email:    email,
		Phone:    "9999999999",
		Gender:   models.GenderOther,
		Password: string(hash),
		Role:     models.Role(role),
	}
	require.NoError(t, e.db.Create(&user).Error)

	bearer, err := e.tokens.Issue(user.ID, role)
	require.NoError(t, err)
	return user, bearer
}

func (e *testEnv) seedProvider(t *testing.T, user models.User, location string, services []string, verified bool) models.Provider {
	t.Helper()

	provider := models.Provider{
		UserID:       user.ID,
		Services:     services,
		Experience:   3,
		Location:     location,
		Availability: "Mon-Fri 9-18",
		Verified:     verified,
	}
	require.NoError(t, e.db.Create(&provider).Error)
	return provider
}

func (e *testEnv) seedBooking(t *testing.T, customerID, providerID uint, status models.BookingStatus, amount float64) models.Booking {
	t.Helper()

	booking := models.Booking{
		BookingID:  utils.GenerateBookingRef(),
		CustomerID: customerID,
		ProviderID: providerID,
		Service:    "haircut",
		Date:       "2025-06-15",
		Time:       "10:00",
		Location:   "Mumbai",
		Amount:     amount,
		Status:     status,
	}
	require.NoError(t, e.db.Create(&booking).Error)
	return booking
}
