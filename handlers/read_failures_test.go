package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visualmate/visualmate/backend/admin-service/internal/actionlog"
	"github.com/visualmate/visualmate/backend/admin-service/internal/authstate"
	"github.com/visualmate/visualmate/backend/admin-service/internal/config"
	"github.com/visualmate/visualmate/backend/admin-service/internal/feedback"
	"github.com/visualmate/visualmate/backend/admin-service/internal/models"
	"github.com/visualmate/visualmate/backend/admin-service/internal/users"
	"github.com/visualmate/visualmate/backend/admin-service/pkg/middleware"
)

// Degraded-store behaviour: list pages render empty instead of failing.

var errStoreOffline = errors.New("store offline")

type listFailProfileRepo struct {
	*users.MemoryProfileRepository
}

func (listFailProfileRepo) List(ctx context.Context) ([]*models.Profile, error) {
	return nil, errStoreOffline
}

type failingLogsRepo struct{}

func (failingLogsRepo) ListByUser(ctx context.Context, uid string) ([]*models.ConversationLog, error) {
	return nil, errStoreOffline
}

type listFailFeedbackRepo struct {
	*feedback.MemoryRepository
}

func (listFailFeedbackRepo) ListFeedback(ctx context.Context) ([]*models.Feedback, error) {
	return nil, errStoreOffline
}

func (listFailFeedbackRepo) ListFAQs(ctx context.Context) ([]*models.FAQ, error) {
	return nil, errStoreOffline
}

// stubAuth attaches a fixed auth snapshot, standing in for the full token
// middleware.
func stubAuth(snap authstate.Snapshot) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CtxUID, snap.UID)
		c.Set(middleware.CtxSnapshot, snap)
	}
}

func adminSnapshot() authstate.Snapshot {
	active := true
	return authstate.Snapshot{
		UID:  "admin-1",
		Role: models.RoleAdmin,
		Profile: &models.Profile{
			UID: "admin-1", FullName: "Alice Admin", Role: models.RoleAdmin, Active: &active,
		},
	}
}

func TestUserList_ReadFailureRendersEmpty(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := users.NewService(listFailProfileRepo{users.NewMemoryProfileRepository()}, nil)

	r := gin.New()
	api := r.Group("/api/v1", stubAuth(adminSnapshot()))
	NewUsersHandler(&config.Config{}, svc, nil, failingLogsRepo{}, actionlog.NewMemoryRecorder()).Register(api)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/users", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Users []users.TableRow `json:"users"`
		Count int              `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Users)
	assert.Zero(t, resp.Count)
}

func TestConversationLogs_ReadFailureRendersEmpty(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := users.NewMemoryProfileRepository()
	svc := users.NewService(repo, nil)
	_, err := svc.Provision(context.Background(), "carer-1", "Carol", "carer@example.com", models.RoleCarer, true)
	require.NoError(t, err)

	r := gin.New()
	api := r.Group("/api/v1", stubAuth(adminSnapshot()))
	NewUsersHandler(&config.Config{}, svc, nil, failingLogsRepo{}, actionlog.NewMemoryRecorder()).Register(api)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/users/carer-1/logs", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":0`)
}

func TestFeedbackLists_ReadFailureRendersEmpty(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := feedback.NewService(listFailFeedbackRepo{feedback.NewMemoryRepository()}, nil)

	r := gin.New()
	api := r.Group("/api/v1", stubAuth(adminSnapshot()))
	NewFeedbackHandler(svc).Register(api)

	for _, path := range []string{"/api/v1/feedback", "/api/v1/faqs"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, w.Code, path)
		assert.Contains(t, w.Body.String(), `"count":0`, path)
	}
}
