package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/leasedesk/leasedesk/backend/middleware"
	"github.com/leasedesk/leasedesk/backend/model"
	"github.com/leasedesk/leasedesk/backend/service"
)

// ClauseHandler serves the clause review surface: listing with filters
// and grouping, comments, status decisions, and AI suggestions.
type ClauseHandler struct {
	store      *service.LOIStore
	suggestSvc *service.SuggestService
}

func NewClauseHandler(suggestSvc *service.SuggestService) *ClauseHandler {
	return &ClauseHandler{
		store:      service.GetLOIStore(),
		suggestSvc: suggestSvc,
	}
}

// getLOI loads the LOI and enforces tenant scoping. Writes the error
// response itself and returns nil when the caller should stop.
func (h *ClauseHandler) getLOI(c *gin.Context) *model.LOI {
	tenant := middleware.GetTenant(c)
	loi := h.store.Get(c.Param("id"))
	if loi == nil || loi.Tenant != tenant {
		c.JSON(http.StatusNotFound, gin.H{"error": "LOI not found"})
		return nil
	}
	return loi
}

// List extracts the LOI's clauses and applies the status filter, text
// query, and optional grouping from query parameters:
//
//	?status=all|approved|rejected|pending
//	?q=free text
//	?group=category|obligation
func (h *ClauseHandler) List(c *gin.Context) {
	loi := h.getLOI(c)
	if loi == nil {
		return
	}

	statusFilter := c.DefaultQuery("status", service.FilterAll)
	query := c.Query("q")

	clauses := service.ExtractClauses(loi.ClausesRaw)
	filtered := service.FilterClauses(clauses, statusFilter, query)

	switch c.Query("group") {
	case "category":
		c.JSON(http.StatusOK, gin.H{
			"total":  len(filtered),
			"groups": service.GroupByCategory(filtered),
		})
	case "obligation":
		agrees, notAgrees := service.SplitByObligation(filtered)
		c.JSON(http.StatusOK, gin.H{
			"total":     len(filtered),
			"agrees":    agrees,
			"notAgrees": notAgrees,
		})
	default:
		c.JSON(http.StatusOK, gin.H{
			"total":   len(filtered),
			"clauses": filtered,
		})
	}
}

type CommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// AddComment appends a review comment to one clause
func (h *ClauseHandler) AddComment(c *gin.Context) {
	loi := h.getLOI(c)
	if loi == nil {
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	comment := model.Comment{
		Author:    middleware.GetUsername(c),
		Text:      req.Text,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	clauseID := c.Param("clauseID")
	err := h.store.MutateClauses(loi.ID, func(payload []byte) ([]byte, error) {
		return service.AppendComment(payload, clauseID, comment)
	})
	if err != nil {
		writeReviewError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment added", "comment": comment})
}

type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetStatus approves, rejects, or resets one clause. The request status
// is normalized, so anything unrecognized becomes a reset to pending.
func (h *ClauseHandler) SetStatus(c *gin.Context) {
	loi := h.getLOI(c)
	if loi == nil {
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	status := model.NormalizeStatus(req.Status)

	clauseID := c.Param("clauseID")
	err := h.store.MutateClauses(loi.ID, func(payload []byte) ([]byte, error) {
		return service.SetClauseStatus(payload, clauseID, status.Key)
	})
	if err != nil {
		writeReviewError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": status.Key, "label": status.Label})
}

// Suggest runs the AI suggester for one clause and persists the result
// as the clause's suggestion annotation.
func (h *ClauseHandler) Suggest(c *gin.Context) {
	loi := h.getLOI(c)
	if loi == nil {
		return
	}

	if h.suggestSvc == nil || !h.suggestSvc.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Suggestions are not configured"})
		return
	}

	clauseID := c.Param("clauseID")
	var target *model.Clause
	for _, clause := range service.ExtractClauses(loi.ClausesRaw) {
		if clause.ID == clauseID {
			target = &clause
			break
		}
	}
	if target == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Clause not found"})
		return
	}

	suggestion, err := h.suggestSvc.SuggestRewrite(c.Request.Context(), *target)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Suggestion failed: " + err.Error()})
		return
	}

	err = h.store.MutateClauses(loi.ID, func(payload []byte) ([]byte, error) {
		return service.AttachSuggestion(payload, clauseID, suggestion.Text, suggestion.Confidence)
	})
	if err != nil {
		writeReviewError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"clause_id":  clauseID,
		"suggestion": suggestion,
	})
}

func writeReviewError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrLOINotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "LOI not found"})
	case errors.Is(err, service.ErrClauseNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Clause not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
