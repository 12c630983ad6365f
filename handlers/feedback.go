package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/visualmate/visualmate/backend/admin-service/internal/feedback"
	"github.com/visualmate/visualmate/backend/admin-service/internal/listview"
	"github.com/visualmate/visualmate/backend/admin-service/pkg/logger"
)

// FeedbackHandler serves the feedback page: user feedback (read-only) and
// the FAQ editor.
type FeedbackHandler struct {
	svc *feedback.Service
}

func NewFeedbackHandler(svc *feedback.Service) *FeedbackHandler {
	return &FeedbackHandler{svc: svc}
}

func (h *FeedbackHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/feedback", h.ListFeedback)
	rg.GET("/faqs", h.ListFAQs)
	rg.POST("/faqs", h.CreateFAQ)
	rg.PUT("/faqs/:id", h.UpdateFAQ)
	rg.DELETE("/faqs/:id", h.DeleteFAQ)
}

func pageParam(c *gin.Context) int {
	if p, err := strconv.Atoi(c.Query("page")); err == nil && p > 0 {
		return p
	}
	return 1
}

func (h *FeedbackHandler) ListFeedback(c *gin.Context) {
	list, err := h.svc.ListFeedback(c.Request.Context())
	if err != nil {
		// read failures render as an empty page, never a server error
		logger.Error().Err(err).Msg("feedback list failed")
		list = nil
	}
	page := pageParam(c)
	c.JSON(http.StatusOK, gin.H{
		"feedback": listview.Paginate(feedback.NewCards(list), page, listview.FeedbackPerPage),
		"page":     page,
		"count":    len(list),
	})
}

func (h *FeedbackHandler) ListFAQs(c *gin.Context) {
	list, err := h.svc.ListFAQs(c.Request.Context())
	if err != nil {
		logger.Error().Err(err).Msg("faq list failed")
		list = nil
	}
	page := pageParam(c)
	c.JSON(http.StatusOK, gin.H{
		"faqs":  listview.Paginate(list, page, listview.FAQsPerPage),
		"page":  page,
		"count": len(list),
	})
}

// FAQRequest is the create/update payload.
type FAQRequest struct {
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
}

func (h *FeedbackHandler) CreateFAQ(c *gin.Context) {
	var req FAQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	f, err := h.svc.CreateFAQ(c.Request.Context(), req.Question, req.Answer)
	if err != nil {
		h.faqError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"faq": f})
}

func (h *FeedbackHandler) UpdateFAQ(c *gin.Context) {
	var req FAQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.UpdateFAQ(c.Request.Context(), c.Param("id"), req.Question, req.Answer); err != nil {
		h.faqError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "faq updated"})
}

func (h *FeedbackHandler) DeleteFAQ(c *gin.Context) {
	if err := h.svc.DeleteFAQ(c.Request.Context(), c.Param("id")); err != nil {
		h.faqError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "faq deleted"})
}

func (h *FeedbackHandler) faqError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, feedback.ErrEmptyFAQ):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Question and answer are required."})
	case errors.Is(err, feedback.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "faq not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "faq operation failed"})
	}
}
