package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/complaint-service/internal/api/http"
	"github.com/spec-kit/complaint-service/internal/api/http/handlers"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/observability"
	"github.com/spec-kit/complaint-service/internal/realtime"
	"github.com/spec-kit/complaint-service/internal/repository"
	"github.com/spec-kit/complaint-service/internal/service"
)

// In-memory repositories backing the full HTTP stack under test.

type memComplaintRepo struct {
	mu         sync.Mutex
	complaints map[string]*domain.Complaint
	sequences  map[int]int
}

func newMemComplaintRepo() *memComplaintRepo {
	return &memComplaintRepo{complaints: map[string]*domain.Complaint{}, sequences: map[int]int{}}
}

func (r *memComplaintRepo) Create(_ context.Context, c *domain.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sequences[c.Year()]++
	c.YearlySequenceNumber = r.sequences[c.Year()]
	c.ID = uuid.NewString()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	clone := *c
	r.complaints[c.ID] = &clone
	return nil
}

func (r *memComplaintRepo) Update(_ context.Context, c *domain.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.complaints[c.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *c
	r.complaints[c.ID] = &clone
	return nil
}

func (r *memComplaintRepo) GetByID(_ context.Context, id string) (*domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.complaints[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *c
	return &clone, nil
}

func (r *memComplaintRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.complaints[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.complaints, id)
	return nil
}

func (r *memComplaintRepo) ListWithFilter(_ context.Context, filter repository.ComplaintFilter) ([]domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := []domain.Complaint{}
	for _, c := range r.complaints {
		if filter.UserID != nil && (c.UserID == nil || *c.UserID != *filter.UserID) {
			continue
		}
		if filter.Status != nil && c.Status != *filter.Status {
			continue
		}
		result = append(result, *c)
	}
	return result, nil
}

func (r *memComplaintRepo) CountsByStatus(_ context.Context, userID *string) (repository.StatusCounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var counts repository.StatusCounts
	for _, c := range r.complaints {
		if userID != nil && (c.UserID == nil || *c.UserID != *userID) {
			continue
		}
		counts.Total++
		if c.Status == domain.ComplaintStatusNew {
			counts.New++
		}
	}
	return counts, nil
}

func (r *memComplaintRepo) CountResolvedBetween(context.Context, time.Time, time.Time, *string) (int, error) {
	return 0, nil
}

func (r *memComplaintRepo) CountCreatedByDay(context.Context, time.Time, time.Time) (map[string]int, error) {
	return map[string]int{}, nil
}

func (r *memComplaintRepo) CountResolvedByDay(context.Context, time.Time, time.Time) (map[string]int, error) {
	return map[string]int{}, nil
}

type memHistoryRepo struct {
	mu      sync.Mutex
	entries []domain.ComplaintHistory
}

func (r *memHistoryRepo) Create(_ context.Context, entry *domain.ComplaintHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.ID = uuid.NewString()
	entry.ChangedAt = time.Now()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *memHistoryRepo) ListByComplaint(_ context.Context, complaintID string) ([]domain.ComplaintHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := []domain.ComplaintHistory{}
	for _, entry := range r.entries {
		if entry.ComplaintID == complaintID {
			result = append(result, entry)
		}
	}
	return result, nil
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*domain.User{}}
}

func (r *memUserRepo) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	clone := *u
	r.users[u.ID] = &clone
	return nil
}

func (r *memUserRepo) Update(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *u
	r.users[u.ID] = &clone
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *u
	return &clone, nil
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type memNotificationRepo struct {
	mu            sync.Mutex
	notifications []*domain.Notification
}

func (r *memNotificationRepo) Create(_ context.Context, n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n.ID = uuid.NewString()
	n.CreatedAt = time.Now()
	clone := *n
	r.notifications = append(r.notifications, &clone)
	return nil
}

func (r *memNotificationRepo) ListByUser(_ context.Context, userID string) ([]domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := []domain.Notification{}
	for _, n := range r.notifications {
		if n.UserID == userID {
			result = append(result, *n)
		}
	}
	return result, nil
}

func (r *memNotificationRepo) ListUnreadByUser(_ context.Context, userID string) ([]domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := []domain.Notification{}
	for _, n := range r.notifications {
		if n.UserID == userID && !n.IsRead {
			result = append(result, *n)
		}
	}
	return result, nil
}

func (r *memNotificationRepo) MarkRead(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.ID == id {
			n.IsRead = true
			return true, nil
		}
	}
	return false, nil
}

func (r *memNotificationRepo) MarkAllRead(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	logger := zap.NewNop()
	dispatcher := events.NewInMemoryDispatcher()
	hub := realtime.NewHub()
	broker := realtime.NewBroker(hub, nil, "test", logger)

	userRepo := newMemUserRepo()
	complaintService := service.NewComplaintService(service.ComplaintDependencies{
		ComplaintRepo: newMemComplaintRepo(),
		HistoryRepo:   &memHistoryRepo{},
		Dispatcher:    dispatcher,
	})
	notificationService := service.NewNotificationService(&memNotificationRepo{}, broker, dispatcher, logger)
	notificationService.RegisterHandlers()

	cfg := config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.AccessTokenTTLMinutes = 30
	cfg.Auth.BcryptCost = 4
	authService := service.NewAuthService(cfg, userRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, observability.NewMetrics(), 5*time.Second)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler("test", "dev", nil, nil),
		Users:          handlers.NewUsersHandler(authService),
		Complaints:     handlers.NewComplaintsHandler(complaintService),
		ASM:            handlers.NewASMHandler(complaintService),
		Notifications:  handlers.NewNotificationsHandler(notificationService),
		Exports:        handlers.NewExportsHandler(complaintService),
		WS:             handlers.NewWSHandler(hub, logger),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), userRepo),
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, payload any) (*http.Response, map[string]any) {
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

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck

	decoded := map[string]any{}
	if len(raw) > 0 && strings.Contains(resp.Header.Get("Content-Type"), "json") {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp, decoded
}

func registerUser(t *testing.T, app *fiber.App, username string) (string, string) {
	t.Helper()
	resp, body := doJSON(t, app, http.MethodPost, "/auth/register", "", map[string]any{
		"username": username,
		"password": "pass-1234",
		"email":    username + "@example.com",
		"name":     "Test User",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	data := body["data"].(map[string]any)
	token := data["token"].(string)
	userID := data["user"].(map[string]any)["id"].(string)
	return token, userID
}

func validComplaintPayload() map[string]any {
	return map[string]any{
		"complaintSource":   "Email",
		"placeOfSupply":     "Mumbai",
		"receivingLocation": "Pune",
		"partyName":         "Acme Traders",
		"complaintType":     "Packaging",
		"voc":               "Drums arrived leaking",
	}
}

func TestLivenessProbe(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/health/live", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alive", body["status"])
	assert.Equal(t, "test", body["service"])
}

func TestCreateComplaintReturnsSequencedRecord(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/api/complaints", "", validComplaintPayload())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	data := body["data"].(map[string]any)
	assert.Equal(t, float64(1), data["yearlySequenceNumber"])
	assert.Equal(t, "new", data["status"])
	assert.Equal(t, "medium", data["priority"])
	assert.Equal(t, "Open", data["finalStatus"])
}

func TestCreateComplaintValidationError(t *testing.T) {
	app := newTestApp(t)

	payload := validComplaintPayload()
	delete(payload, "partyName")
	delete(payload, "complaintType")

	resp, body := doJSON(t, app, http.MethodPost, "/api/complaints", "", payload)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	errObj := body["error"].(map[string]any)
	assert.Equal(t, "VALIDATION_FAILED", errObj["code"])
	details := errObj["details"].(map[string]any)
	assert.Contains(t, details, "partyName")
	assert.Contains(t, details, "complaintType")
}

func TestGetUnknownComplaintReturns404(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/api/complaints/nope", "", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body["error"].(map[string]any)["code"])
}

func TestUpdateRejectsIllegalTransition(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/api/complaints", "", validComplaintPayload())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := body["data"].(map[string]any)["id"].(string)

	resp, body = doJSON(t, app, http.MethodPatch, "/api/complaints/"+id, "", map[string]any{"status": "closed"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", body["error"].(map[string]any)["code"])
}

func TestTrendsRejectsNonNumericDays(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/api/complaints/trends/abc", "", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", body["error"].(map[string]any)["code"])
}

func TestOptionsEndpoint(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/api/complaints/options", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]any)
	assert.Len(t, data["statuses"], 4)
	assert.Len(t, data["priorities"], 3)
	assert.NotEmpty(t, data["subCategories"])
}

func TestASMRequiresToken(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/api/asm/my-complaints", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", body["error"].(map[string]any)["code"])
}

func TestASMRejectsBadToken(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/asm/my-complaints", "not-a-token", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestASMComplaintOwnershipIsForced(t *testing.T) {
	app := newTestApp(t)

	token, userID := registerUser(t, app, "asm-user")
	otherToken, _ := registerUser(t, app, "other-user")

	payload := validComplaintPayload()
	payload["userId"] = "spoofed-user"
	resp, body := doJSON(t, app, http.MethodPost, "/api/asm/complaints", token, payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, userID, body["data"].(map[string]any)["userId"])

	resp, body = doJSON(t, app, http.MethodGet, "/api/asm/my-complaints", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["data"].([]any), 1)

	resp, body = doJSON(t, app, http.MethodGet, "/api/asm/my-complaints", otherToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body["data"].([]any))
}

func TestASMCreateGeneratesOwnerNotification(t *testing.T) {
	app := newTestApp(t)

	token, userID := registerUser(t, app, "asm-user")
	resp, _ := doJSON(t, app, http.MethodPost, "/api/asm/complaints", token, validComplaintPayload())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodGet, "/api/notifications/unread?userId="+userID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, body["data"].([]any), 1)
	entry := body["data"].([]any)[0].(map[string]any)
	assert.Equal(t, "complaint_created", entry["type"])
	assert.Equal(t, false, entry["isRead"])
}

func TestNotificationsRequireUserID(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/api/notifications/", "", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", body["error"].(map[string]any)["code"])
}

func TestMarkReadUnknownIDReportsFalse(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/api/notifications/nope/read", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["data"].(map[string]any)["updated"])
}

func TestUpdateProfileRequiresToken(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodPatch, "/api/asm/profile", "", map[string]any{"name": "Changed"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", body["error"].(map[string]any)["code"])
}

func TestUpdateProfileChangesOwnFields(t *testing.T) {
	app := newTestApp(t)

	token, userID := registerUser(t, app, "profile-user")

	resp, body := doJSON(t, app, http.MethodPatch, "/api/asm/profile", token, map[string]any{
		"name":  "Renamed User",
		"phone": "+91-99999-00000",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]any)
	assert.Equal(t, userID, data["id"])
	assert.Equal(t, "Renamed User", data["name"])
	assert.Equal(t, "+91-99999-00000", data["phone"])
	// Omitted fields stay as registered.
	assert.Equal(t, "profile-user@example.com", data["email"])
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	app := newTestApp(t)

	registerUser(t, app, "dupe")
	resp, body := doJSON(t, app, http.MethodPost, "/auth/register", "", map[string]any{
		"username": "dupe",
		"password": "pass-1234",
		"email":    "fresh@example.com",
		"name":     "Test User",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", body["error"].(map[string]any)["code"])
}

func TestLoginFlow(t *testing.T) {
	app := newTestApp(t)

	registerUser(t, app, "login-user")

	resp, body := doJSON(t, app, http.MethodPost, "/auth/login", "", map[string]any{
		"username": "login-user",
		"password": "pass-1234",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["data"].(map[string]any)["token"])

	resp, body = doJSON(t, app, http.MethodPost, "/auth/login", "", map[string]any{
		"username": "login-user",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", body["error"].(map[string]any)["code"])
}

func TestExportAllReturnsWorkbook(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/complaints/export-all", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".xlsx")
}
