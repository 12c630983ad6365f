package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/visualmate/visualmate/backend/admin-service/internal/actionlog"
	"github.com/visualmate/visualmate/backend/admin-service/internal/activation"
	"github.com/visualmate/visualmate/backend/admin-service/internal/config"
	"github.com/visualmate/visualmate/backend/admin-service/internal/convlogs"
	"github.com/visualmate/visualmate/backend/admin-service/internal/guard"
	"github.com/visualmate/visualmate/backend/admin-service/internal/identity"
	"github.com/visualmate/visualmate/backend/admin-service/internal/listview"
	"github.com/visualmate/visualmate/backend/admin-service/internal/models"
	"github.com/visualmate/visualmate/backend/admin-service/internal/users"
	"github.com/visualmate/visualmate/backend/admin-service/pkg/logger"
	"github.com/visualmate/visualmate/backend/admin-service/pkg/middleware"
)

// UsersHandler serves the user-management table and the manage-user dialog.
type UsersHandler struct {
	cfg         *config.Config
	usersSvc    *users.Service
	identitySvc *identity.Service
	logsRepo    convlogs.Repository
	audit       actionlog.Recorder
}

func NewUsersHandler(cfg *config.Config, u *users.Service, id *identity.Service, logs convlogs.Repository, audit actionlog.Recorder) *UsersHandler {
	return &UsersHandler{cfg: cfg, usersSvc: u, identitySvc: id, logsRepo: logs, audit: audit}
}

// Register routes under the authenticated API group.
func (h *UsersHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/users", h.List)
	rg.POST("/users", middleware.RequireSuperadmin(), h.AddAdmin)
	rg.GET("/users/:uid", h.Get)
	rg.PATCH("/users/:uid", h.Update)
	rg.PATCH("/users/:uid/active", h.SetActive)
	rg.GET("/users/:uid/logs", h.ConversationLogs)
	rg.GET("/dashboard/analytics", h.Analytics)
}

// List serves one page of the user table. Search matches every token
// against name, email, role, address and contact number; the role filter
// is exact and case-insensitive.
func (h *UsersHandler) List(c *gin.Context) {
	profiles, err := h.usersSvc.List(c.Request.Context())
	if err != nil {
		// read failures render as an empty table, never a server error
		logger.Error().Err(err).Msg("user list failed")
		profiles = nil
	}

	view := listview.New(listview.UsersPerPage,
		users.TableRow.SearchText,
		func(r users.TableRow) string { return r.Role },
	)
	view.Apply(users.NewTableRows(profiles))
	view.SetSearch(c.Query("search"))
	view.SetRoleFilter(c.Query("role"))
	if p, err := strconv.Atoi(c.Query("page")); err == nil {
		view.SetPage(p)
	}

	page, total, count := view.PageInfo()
	snap, _ := middleware.Snapshot(c)
	c.JSON(http.StatusOK, gin.H{
		"users":       view.Page(),
		"page":        page,
		"totalPages":  total,
		"count":       count,
		"canAddAdmin": guard.CanSeeAddAdminControl(snap.Role),
	})
}

// AddAdminRequest is the superadmin-only provisioning payload. The new
// account starts with the default admin password and must change it on
// first use.
type AddAdminRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required"`
}

func (h *UsersHandler) AddAdmin(c *gin.Context) {
	var req AddAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	uid, err := h.identitySvc.CreateUser(c.Request.Context(), req.Email, h.cfg.Accounts.DefaultAdminPassword)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "An account with that email already exists."})
		case errors.Is(err, identity.ErrInvalidEmail):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email address."})
		default:
			logger.Error().Err(err).Msg("admin provisioning failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create admin"})
		}
		return
	}
	profile, err := h.usersSvc.Provision(c.Request.Context(), uid, req.FullName, req.Email, models.RoleAdmin, true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create admin profile"})
		return
	}
	snap, _ := middleware.Snapshot(c)
	adminName := snap.UID
	if snap.Profile != nil {
		adminName = snap.Profile.FullName
	}
	h.audit.Record(c.Request.Context(), snap.UID, adminName, "add_admin", profile.UID)
	c.JSON(http.StatusCreated, gin.H{"user": users.NewTableRow(profile)})
}

func (h *UsersHandler) Get(c *gin.Context) {
	profile, err := h.usersSvc.Get(c.Request.Context(), c.Param("uid"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if profile == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": profile})
}

// Update applies a field-level profile edit. Profile fields belong to the
// account that owns them, so the target uid must be the caller's own.
func (h *UsersHandler) Update(c *gin.Context) {
	snap, _ := middleware.Snapshot(c)
	if c.Param("uid") != snap.UID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own profile."})
		return
	}
	var req users.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.usersSvc.UpdateProfile(c.Request.Context(), c.Param("uid"), req); err != nil {
		if errors.Is(err, users.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "profile updated"})
}

// SetActiveRequest carries the manage-user dialog's toggle. Deactivation
// requires the confirm flag; reactivation does not.
type SetActiveRequest struct {
	Active  *bool `json:"active" binding:"required"`
	Confirm bool  `json:"confirm"`
}

func (h *UsersHandler) SetActive(c *gin.Context) {
	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	targetUID := c.Param("uid")
	target, err := h.usersSvc.Get(c.Request.Context(), targetUID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if target == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	snap, _ := middleware.Snapshot(c)
	actor := activation.Actor{UID: snap.UID, Role: snap.Role}
	machine := activation.NewMachine(h.usersSvc, targetUID, target.Role, target.Active, activation.Hooks{})
	if _, err := machine.Resolve(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "state resolution failed"})
		return
	}

	if *req.Active {
		err = machine.Reactivate(c.Request.Context(), actor)
	} else {
		err = machine.Deactivate(c.Request.Context(), actor, req.Confirm)
	}
	if err != nil {
		switch {
		case errors.Is(err, activation.ErrConfirmationRequired):
			c.JSON(http.StatusConflict, gin.H{"error": "Deactivation requires confirmation."})
		case errors.Is(err, activation.ErrNotPermitted):
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to manage this user."})
		case errors.Is(err, activation.ErrPermissionDenied):
			c.JSON(http.StatusForbidden, gin.H{"error": "Your account does not have the required role."})
		default:
			logger.Error().Err(err).Str("target", targetUID).Msg("activation write failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update account state"})
		}
		return
	}

	action := "deactivate_user"
	if *req.Active {
		action = "reactivate_user"
	}
	adminName := snap.UID
	if snap.Profile != nil {
		adminName = snap.Profile.FullName
	}
	h.audit.Record(c.Request.Context(), snap.UID, adminName, action, targetUID)
	c.JSON(http.StatusOK, gin.H{"state": machine.State().String()})
}

// ConversationLogs serves one page of a user's prompt/response history.
// The history is private, so the caller must be allowed to manage the
// target account.
func (h *UsersHandler) ConversationLogs(c *gin.Context) {
	targetUID := c.Param("uid")
	target, err := h.usersSvc.Get(c.Request.Context(), targetUID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if target == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	snap, _ := middleware.Snapshot(c)
	if !guard.CanManage(snap.Role, snap.UID, targetUID, target.Role) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to view this user's logs."})
		return
	}

	logs, err := h.logsRepo.ListByUser(c.Request.Context(), targetUID)
	if err != nil {
		// read failures render as an empty history, never a server error
		logger.Error().Err(err).Str("target", targetUID).Msg("conversation log read failed")
		logs = nil
	}
	page := 1
	if p, err := strconv.Atoi(c.Query("page")); err == nil && p > 0 {
		page = p
	}
	c.JSON(http.StatusOK, gin.H{
		"logs":  listview.Paginate(convlogs.NewRows(logs), page, listview.LogsPerPage),
		"page":  page,
		"count": len(logs),
	})
}

func (h *UsersHandler) Analytics(c *gin.Context) {
	a, err := h.usersSvc.DashboardAnalytics(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "analytics failed"})
		return
	}
	c.JSON(http.StatusOK, a)
}
