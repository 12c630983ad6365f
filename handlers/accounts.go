package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/visualmate/visualmate/backend/admin-service/internal/actionlog"
	"github.com/visualmate/visualmate/backend/admin-service/internal/guard"
	"github.com/visualmate/visualmate/backend/admin-service/internal/identity"
	"github.com/visualmate/visualmate/backend/admin-service/internal/users"
	"github.com/visualmate/visualmate/backend/admin-service/pkg/logger"
	"github.com/visualmate/visualmate/backend/admin-service/pkg/middleware"
)

// AccountsHandler removes a person entirely: credential record first, then
// profile document.
type AccountsHandler struct {
	identitySvc *identity.Service
	usersSvc    *users.Service
	audit       actionlog.Recorder
}

func NewAccountsHandler(id *identity.Service, u *users.Service, audit actionlog.Recorder) *AccountsHandler {
	return &AccountsHandler{identitySvc: id, usersSvc: u, audit: audit}
}

func (h *AccountsHandler) Register(rg *gin.RouterGroup) {
	rg.DELETE("/accounts/:uid", h.Delete)
}

// Delete removes the credential and then the profile, in that order. The
// two deletes are not transactional: if the profile delete fails the
// credential is already gone and the profile survives as an orphan. That
// state is visible in the audit log and resolved by retrying.
func (h *AccountsHandler) Delete(c *gin.Context) {
	targetUID := c.Param("uid")
	snap, _ := middleware.Snapshot(c)

	target, err := h.usersSvc.Get(c.Request.Context(), targetUID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if target == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if !guard.CanManage(snap.Role, snap.UID, targetUID, target.Role) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to delete this account."})
		return
	}

	if err := h.identitySvc.DeleteUser(c.Request.Context(), targetUID); err != nil {
		logger.Error().Err(err).Str("target", targetUID).Msg("credential delete failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete account"})
		return
	}
	if err := h.usersSvc.Delete(c.Request.Context(), targetUID); err != nil {
		logger.Error().Err(err).Str("target", targetUID).Msg("profile delete failed after credential delete")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "account partially deleted; retry to remove the profile"})
		return
	}

	adminName := snap.UID
	if snap.Profile != nil {
		adminName = snap.Profile.FullName
	}
	h.audit.Record(c.Request.Context(), snap.UID, adminName, "delete_account", targetUID)
	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}
