package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ticketrack/ticketrack/internal/api/dto"
	"github.com/ticketrack/ticketrack/internal/api/http/handlers"
	"github.com/ticketrack/ticketrack/internal/auth"
	"github.com/ticketrack/ticketrack/internal/config"
	"github.com/ticketrack/ticketrack/internal/events"
	"github.com/ticketrack/ticketrack/internal/observability"
	"github.com/ticketrack/ticketrack/internal/repository"
	"github.com/ticketrack/ticketrack/internal/service"
	"github.com/ticketrack/ticketrack/internal/worker"
)

type testEnv struct {
	app         *fiber.App
	authService *service.AuthService
}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()

	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 60,
			BcryptCost:            bcrypt.MinCost,
		},
	}

	dispatcher := events.NewInMemoryDispatcher()
	authService := service.NewAuthService(cfg, service.AuthDependencies{
		UserRepo:   repository.NewMemoryUserRepository(),
		Dispatcher: dispatcher,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: repository.NewMemoryTicketRepository(),
		Dispatcher: dispatcher,
	})

	logger := zap.NewNop()
	notificationService := service.NewNotificationService(dispatcher, logger, config.NotificationConfig{})
	worker.StartNotificationWorker(notificationService)

	staticDir := t.TempDir()
	err := os.WriteFile(filepath.Join(staticDir, "index.html"), []byte("<html>shell</html>"), 0o644)
	require.NoError(t, err)

	app := fiber.New()
	RegisterMiddlewares(app, logger, observability.NewMetrics(), 0)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("test", "test", nil, nil),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		SPA:            handlers.NewSPAHandler(staticDir),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager()),
		StaticDir:      staticDir,
	})

	return testEnv{app: app, authService: authService}
}

func (e testEnv) request(t *testing.T, method, path, token string, payload any) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, raw
}

func (e testEnv) registerAndLogin(t *testing.T, username string) string {
	t.Helper()

	resp, _ := e.request(t, http.MethodPost, "/api/register", "", map[string]string{
		"username": username,
		"password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := e.request(t, http.MethodPost, "/api/login", "", map[string]string{
		"username": username,
		"password": "supersecret",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var login dto.LoginResponse
	require.NoError(t, json.Unmarshal(body, &login))
	require.Equal(t, username, login.Username)
	require.NotEmpty(t, login.AccessToken)
	return login.AccessToken
}

func TestRegister_DuplicateUsername(t *testing.T) {
	env := setupTestEnv(t)

	payload := map[string]string{"username": "alice", "password": "supersecret"}

	resp, body := env.request(t, http.MethodPost, "/api/register", "", payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var msg dto.MessageResponse
	require.NoError(t, json.Unmarshal(body, &msg))
	require.Equal(t, "User created successfully", msg.Msg)

	resp, body = env.request(t, http.MethodPost, "/api/register", "", payload)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Contains(t, string(body), "CONFLICT")
}

func TestRegister_MissingFields(t *testing.T) {
	env := setupTestEnv(t)

	resp, _ := env.request(t, http.MethodPost, "/api/register", "", map[string]string{"username": "alice"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin_WrongPassword(t *testing.T) {
	env := setupTestEnv(t)
	env.registerAndLogin(t, "alice")

	resp, _ := env.request(t, http.MethodPost, "/api/login", "", map[string]string{
		"username": "alice",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTickets_AuthRequired(t *testing.T) {
	env := setupTestEnv(t)

	resp, _ := env.request(t, http.MethodGet, "/api/tickets", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body := env.request(t, http.MethodGet, "/api/tickets", "garbage-token", nil)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	require.Contains(t, string(body), "INVALID_TOKEN")
}

func TestTickets_EmptyList(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerAndLogin(t, "alice")

	resp, body := env.request(t, http.MethodGet, "/api/tickets", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var items []dto.TicketResponse
	require.NoError(t, json.Unmarshal(body, &items))
	require.NotNil(t, items)
	require.Empty(t, items)
}

func TestTickets_CreateDefaultsAndOrdering(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerAndLogin(t, "alice")

	resp, body := env.request(t, http.MethodPost, "/api/tickets", token, map[string]string{
		"title":       "First",
		"description": "first ticket",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var msg dto.MessageResponse
	require.NoError(t, json.Unmarshal(body, &msg))
	require.Equal(t, "Ticket created", msg.Msg)

	resp, _ = env.request(t, http.MethodPost, "/api/tickets", token, map[string]string{
		"title":       "Second",
		"description": "second ticket",
		"priority":    "High",
		"category":    "Billing",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body = env.request(t, http.MethodGet, "/api/tickets", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var items []dto.TicketResponse
	require.NoError(t, json.Unmarshal(body, &items))
	require.Len(t, items, 2)

	// newest first
	require.Equal(t, "Second", items[0].Title)
	require.Equal(t, "High", items[0].Priority)
	require.Equal(t, "Billing", items[0].Category)

	require.Equal(t, "First", items[1].Title)
	require.Equal(t, "Open", items[1].Status)
	require.Equal(t, "Medium", items[1].Priority)
	require.Equal(t, "Support", items[1].Category)

	displayTime := regexp.MustCompile(`^[A-Z][a-z]{2} \d{2}, \d{2}:\d{2} (AM|PM)$`)
	require.Regexp(t, displayTime, items[0].CreatedAt)
}

func TestTickets_CreateValidation(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerAndLogin(t, "alice")

	resp, _ := env.request(t, http.MethodPost, "/api/tickets", token, map[string]string{"title": "no description"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTickets_UpdateStatus(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerAndLogin(t, "alice")

	resp, _ := env.request(t, http.MethodPost, "/api/tickets", token, map[string]string{
		"title": "t", "description": "d",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := env.request(t, http.MethodPut, "/api/tickets/1", token, map[string]string{"status": "Closed"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var msg dto.MessageResponse
	require.NoError(t, json.Unmarshal(body, &msg))
	require.Equal(t, "Updated", msg.Msg)

	resp, body = env.request(t, http.MethodGet, "/api/tickets", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var items []dto.TicketResponse
	require.NoError(t, json.Unmarshal(body, &items))
	require.Equal(t, "Closed", items[0].Status)
}

func TestTickets_UpdateIgnoresOtherFields(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerAndLogin(t, "alice")

	resp, _ := env.request(t, http.MethodPost, "/api/tickets", token, map[string]string{
		"title": "original", "description": "d",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// title is not a mutable field; the request succeeds with no change
	resp, _ = env.request(t, http.MethodPut, "/api/tickets/1", token, map[string]string{"title": "hijacked"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := env.request(t, http.MethodGet, "/api/tickets", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var items []dto.TicketResponse
	require.NoError(t, json.Unmarshal(body, &items))
	require.Equal(t, "original", items[0].Title)
	require.Equal(t, "Open", items[0].Status)
}

func TestTickets_OwnershipEnforced(t *testing.T) {
	env := setupTestEnv(t)
	tokenA := env.registerAndLogin(t, "alice")
	tokenB := env.registerAndLogin(t, "bob")

	resp, _ := env.request(t, http.MethodPost, "/api/tickets", tokenA, map[string]string{
		"title": "alice ticket", "description": "d",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = env.request(t, http.MethodPut, "/api/tickets/1", tokenB, map[string]string{"status": "Closed"})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = env.request(t, http.MethodDelete, "/api/tickets/1", tokenB, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	// bob never sees alice's tickets
	resp, body := env.request(t, http.MethodGet, "/api/tickets", tokenB, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var items []dto.TicketResponse
	require.NoError(t, json.Unmarshal(body, &items))
	require.Empty(t, items)
}

func TestTickets_DeleteTwice(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerAndLogin(t, "alice")

	resp, _ := env.request(t, http.MethodPost, "/api/tickets", token, map[string]string{
		"title": "t", "description": "d",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := env.request(t, http.MethodDelete, "/api/tickets/1", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var msg dto.MessageResponse
	require.NoError(t, json.Unmarshal(body, &msg))
	require.Equal(t, "Deleted", msg.Msg)

	resp, _ = env.request(t, http.MethodDelete, "/api/tickets/1", token, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTickets_UnknownAndMalformedID(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerAndLogin(t, "alice")

	resp, _ := env.request(t, http.MethodPut, "/api/tickets/999", token, map[string]string{"status": "Closed"})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = env.request(t, http.MethodDelete, "/api/tickets/abc", token, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSPAFallback(t *testing.T) {
	env := setupTestEnv(t)

	resp, body := env.request(t, http.MethodGet, "/settings/profile", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), "shell")

	resp, bodyAPI := env.request(t, http.MethodGet, "/api/nope", "", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Contains(t, string(bodyAPI), "NOT_FOUND")
}

func TestHealthLive(t *testing.T) {
	env := setupTestEnv(t)

	resp, body := env.request(t, http.MethodGet, "/health/live", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), "alive")
}
