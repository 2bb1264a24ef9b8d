package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/hosamatch/backend/internal/config"
	"github.com/hosamatch/backend/internal/database"
	"github.com/hosamatch/backend/internal/middleware"
	"github.com/hosamatch/backend/internal/models"
	"github.com/hosamatch/backend/internal/services"
	"github.com/hosamatch/backend/pkg/logger"
	"github.com/hosamatch/backend/pkg/utils"
	"gorm.io/gorm"
)

type testEnv struct {
	app *fiber.App
	db  *gorm.DB
}

var testSetupOnce sync.Once

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	testSetupOnce.Do(func() {
		logger.Init()
		utils.ConfigureJWT("test-secret", 24)
	})

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed opening in-memory sqlite database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed getting sql.DB from gorm: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed automigrating models: %v", err)
	}

	cfg := &config.Config{
		Server: config.ServerConfig{
			FrontendURL: "http://localhost:3000",
		},
	}

	accessService := services.NewAccessService(db)
	schoolService := services.NewSchoolService(db)
	mailerService := services.NewMailerService(config.MailConfig{})

	authHandler := NewAuthHandler(db, cfg, accessService)
	schoolsHandler := NewSchoolsHandler(schoolService, accessService, mailerService)
	eventsHandler := NewEventsHandler(schoolService, accessService)
	usersHandler := NewUsersHandler(schoolService, accessService)
	imagesHandler := NewImagesHandler(nil, accessService)

	authMiddleware := middleware.NewAuthMiddleware(db)

	app := fiber.New(fiber.Config{BodyLimit: 10 * 1024 * 1024})
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(middleware.CORS())
	app.Use(middleware.RequestLogger())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Get("/me", authMiddleware.RequireSession, authHandler.Me)
	authRoutes.Post("/account", authMiddleware.RequireSession, authHandler.CreateAccount)
	authRoutes.Post("/refresh", authMiddleware.RequireSession, authHandler.Refresh)
	authRoutes.Get("/sso/google", authHandler.GoogleRedirect)
	authRoutes.Get("/sso/google/callback", authHandler.GoogleCallback)

	api.Post("/school", authMiddleware.RequireAccount, schoolsHandler.Post)
	api.Get("/school", authMiddleware.RequireSession, schoolsHandler.Get)

	api.Post("/event", authMiddleware.RequireAccount, eventsHandler.Post)
	api.Get("/event", authMiddleware.RequireSession, eventsHandler.List)
	api.Delete("/event/:id", authMiddleware.RequireAccount, eventsHandler.Delete)

	api.Get("/user", authMiddleware.RequireAccount, usersHandler.List)

	api.Post("/images", authMiddleware.RequireAccount, imagesHandler.Upload)

	return &testEnv{app: app, db: db}
}

// createTestUser inserts a member record and returns it with a session
// token resolving to it.
func createTestUser(t *testing.T, db *gorm.DB, email, name string) (*models.User, string) {
	t.Helper()

	user := &models.User{
		Email: email,
		Name:  name,
		Grade: 11,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed creating test user: %v", err)
	}

	token, err := utils.GenerateToken(user.ID, user.Email, user.Name, user.Image)
	if err != nil {
		t.Fatalf("failed generating auth token: %v", err)
	}

	return user, token
}

// sessionToken issues a token for an identity with no member record,
// i.e. a signed-in user who has not finished onboarding.
func sessionToken(t *testing.T, email, name string) string {
	t.Helper()

	token, err := utils.GenerateToken(uuid.Nil, email, name, "")
	if err != nil {
		t.Fatalf("failed generating session token: %v", err)
	}
	return token
}

func authHeaders(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func performRequest(t *testing.T, app *fiber.App, method, path string, body io.Reader, headers map[string]string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := app.Test(req, int((10 * time.Second).Milliseconds()))
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}

	return resp
}

func performJSONRequest(t *testing.T, app *fiber.App, method, path string, payload any, headers map[string]string) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	requestHeaders := map[string]string{}
	for key, value := range headers {
		requestHeaders[key] = value
	}
	if payload != nil {
		requestHeaders["Content-Type"] = "application/json"
	}

	return performRequest(t, app, method, path, body, requestHeaders)
}

func decodeJSONMap(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed reading response body: %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("failed decoding JSON response: %v body=%q", err, string(raw))
	}

	return payload
}

func assertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Fatalf("expected status %d, got %d", expected, resp.StatusCode)
	}
}

func assertErrorBody(t *testing.T, body map[string]any, expected string) {
	t.Helper()
	if got, _ := body["error"].(string); got != expected {
		t.Fatalf("expected error %q, got %q", expected, got)
	}
}

func stringSlice(t *testing.T, raw any) []string {
	t.Helper()

	items, ok := raw.([]any)
	if !ok {
		t.Fatalf("expected array, got %T", raw)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		value, ok := item.(string)
		if !ok {
			t.Fatalf("expected string element, got %T", item)
		}
		out = append(out, value)
	}
	return out
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
