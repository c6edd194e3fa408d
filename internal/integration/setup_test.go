package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"sparkletidy/internal/config"
	"sparkletidy/internal/ledger"
	"sparkletidy/internal/logger"
	"sparkletidy/internal/middleware"
	"sparkletidy/internal/repository"
	"sparkletidy/internal/server"
	"sparkletidy/internal/services"
	"sparkletidy/internal/testutil"
	"sparkletidy/internal/validator"
)

const (
	adminEmail    = "admin@sparkletidy.test"
	adminPassword = "correct horse battery"
	bookingKey    = "booking-test-key"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Repo   repository.TransactionRepository
	Router *gin.Engine
	token  string
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	app := newApp(t, repository.NewGormTransactionRepository(db), services.NewAuditService(db))
	app.DB = db
	return app
}

// setupBoltApp creates the same stack over a bolt file store.
func setupBoltApp(t *testing.T) *testApp {
	t.Helper()

	repo, err := repository.NewBoltTransactionRepository(filepath.Join(t.TempDir(), "ledger.bolt"))
	if err != nil {
		t.Fatalf("failed to open bolt store: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	return newApp(t, repo, services.NewLogAuditService())
}

func newApp(t *testing.T, repo repository.TransactionRepository, audit services.AuditServicer) *testApp {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash admin password: %v", err)
	}
	authCfg := config.AuthConfig{
		JWTSecret:         "integration-secret",
		JWTExpiration:     time.Hour,
		AdminEmail:        adminEmail,
		AdminPasswordHash: string(hash),
		BookingAPIKey:     bookingKey,
	}

	reportService := services.NewReportService(repo)
	router := server.NewRouter(server.Deps{
		Transactions:  services.NewTransactionService(repo),
		Reports:       reportService,
		Exports:       services.NewExportService(reportService, nil),
		Mock:          services.NewMockService(repo, ledger.DefaultPricing()),
		Auth:          services.NewAuthService(authCfg),
		Audit:         audit,
		Store:         repo,
		Tokens:        middleware.NewTokenIssuer(authCfg.JWTSecret, authCfg.JWTExpiration),
		BookingAPIKey: authCfg.BookingAPIKey,
	})

	app := &testApp{Repo: repo, Router: router}
	app.token = app.login(t)
	return app
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// intake posts a booking-site transaction with the given API key.
func (app *testApp) intake(body, apiKey string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/api/v1/intake/transactions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", apiKey)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// admin makes an authenticated admin request.
func (app *testApp) admin(method, path, body string) *httptest.ResponseRecorder {
	return app.request(method, path, body, app.token)
}

func (app *testApp) login(t *testing.T) string {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, adminEmail, adminPassword)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["token"].(string)
}

// createTransaction posts body and returns the created transaction object.
func (app *testApp) createTransaction(t *testing.T, body string) map[string]interface{} {
	t.Helper()
	rec := app.admin("POST", "/api/v1/transactions", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["transaction"].(map[string]interface{})
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	errObj, ok := parseJSON(t, rec)["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object, got %s", rec.Body.String())
	}
	code, _ := errObj["code"].(string)
	return code
}
