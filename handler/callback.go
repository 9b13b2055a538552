package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/leasedesk/leasedesk/backend/model"
	"github.com/leasedesk/leasedesk/backend/service"
)

type CallbackHandler struct {
	docparseService *service.DocparseService
	store           *service.LOIStore
}

func NewCallbackHandler(docparseSvc *service.DocparseService) *CallbackHandler {
	return &CallbackHandler{
		docparseService: docparseSvc,
		store:           service.GetLOIStore(),
	}
}

type CallbackRequest struct {
	Checksum string `json:"checksum"`
	Content  string `json:"content"`
}

type CallbackContent struct {
	TaskID    string `json:"task_id"`
	DataID    string `json:"data_id"`
	State     string `json:"state"`
	ResultURL string `json:"result_url"`
	ErrorMsg  string `json:"err_msg"`
}

// HandleCallback receives extraction completion callbacks from Docparse
func (h *CallbackHandler) HandleCallback(c *gin.Context) {
	var req CallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	// Parse content
	var content CallbackContent
	if err := json.Unmarshal([]byte(req.Content), &content); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid content format"})
		return
	}

	// Find LOI by DataID (which is our loiID)
	loi := h.store.Get(content.DataID)
	if loi == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "LOI not found"})
		return
	}

	// Reject callbacks that don't carry a valid checksum
	if !h.docparseService.VerifyCallback(req.Checksum, req.Content, content.DataID) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid checksum"})
		return
	}

	// Update LOI based on callback
	switch content.State {
	case "done":
		if content.ResultURL == "" {
			h.store.UpdateStatus(loi.ID, model.LOIFailed, "Callback carried no result URL")
			break
		}
		clauses, err := h.docparseService.FetchClausesResult(content.ResultURL)
		if err != nil {
			h.store.UpdateStatus(loi.ID, model.LOIFailed, "Failed to fetch clauses: "+err.Error())
		} else {
			h.store.UpdateClauses(loi.ID, clauses)
		}
	case "failed":
		h.store.UpdateStatus(loi.ID, model.LOIFailed, content.ErrorMsg)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Callback received"})
}
