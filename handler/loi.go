package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/leasedesk/leasedesk/backend/middleware"
	"github.com/leasedesk/leasedesk/backend/model"
	"github.com/leasedesk/leasedesk/backend/service"
)

// DocumentStore is the object-storage surface the LOI handlers use.
// *service.MinioService implements it.
type DocumentStore interface {
	UploadDocument(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error
	GetPresignedURL(ctx context.Context, objectName string) (string, error)
	DeleteDocument(ctx context.Context, objectName string) error
}

type LOIHandler struct {
	documents       DocumentStore
	docparseService *service.DocparseService
	store           *service.LOIStore
}

func NewLOIHandler(minioSvc *service.MinioService, docparseSvc *service.DocparseService) *LOIHandler {
	return &LOIHandler{
		documents:       minioSvc,
		docparseService: docparseSvc,
		store:           service.GetLOIStore(),
	}
}

// objectName is where an LOI's uploaded document lives in the bucket.
func objectName(loi *model.LOI) string {
	return fmt.Sprintf("%s/%s/%s", loi.Tenant, loi.ID, loi.Filename)
}

// Upload handles LOI document upload
func (h *LOIHandler) Upload(c *gin.Context) {
	tenant := middleware.GetTenant(c)

	// Get file from form
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	defer file.Close()

	// Validate file type - PDF and DOCX allowed
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".pdf" && ext != ".docx" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only PDF and DOCX files are allowed"})
		return
	}

	// Determine content type based on extension
	var expectedContentType string
	if ext == ".pdf" {
		expectedContentType = "application/pdf"
	} else {
		expectedContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}

	// Validate content type
	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = expectedContentType
	} else if ext == ".pdf" && !strings.Contains(contentType, "pdf") {
		// Try to detect from file header for PDF
		buffer := make([]byte, 512)
		if _, err := file.Read(buffer); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
			return
		}
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process file"})
			return
		}

		detectedType := http.DetectContentType(buffer)
		if !strings.Contains(detectedType, "pdf") && detectedType != "application/octet-stream" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file type"})
			return
		}
		contentType = "application/pdf"
	} else if ext == ".docx" {
		contentType = expectedContentType
	}

	// Create LOI record
	loi := &model.LOI{
		ID:        uuid.New().String(),
		Filename:  header.Filename,
		Tenant:    tenant,
		Status:    model.LOIParsing,
		CreatedAt: time.Now(),
	}
	object := objectName(loi)

	// Upload to MinIO
	err = h.documents.UploadDocument(c.Request.Context(), object, file, header.Size, contentType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload document: " + err.Error()})
		return
	}

	// Get presigned URL for the extraction service
	docURL, err := h.documents.GetPresignedURL(c.Request.Context(), object)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate URL: " + err.Error()})
		return
	}

	loi.DocURL = docURL
	h.store.Save(loi)

	// Kick off clause extraction in the background
	go h.startExtraction(loi.ID, docURL)

	c.JSON(http.StatusOK, gin.H{
		"id":       loi.ID,
		"filename": loi.Filename,
		"status":   loi.Status,
	})
}

// startExtraction creates the Docparse task and polls for its result
func (h *LOIHandler) startExtraction(loiID, docURL string) {
	resp, err := h.docparseService.CreateTask(docURL, loiID)
	if err != nil {
		slog.Error("failed to create extraction task", "loi_id", loiID, "error", err)
		h.store.UpdateStatus(loiID, model.LOIFailed, err.Error())
		return
	}

	taskID := resp.Data.TaskID
	h.store.SetParseTask(loiID, taskID)
	slog.Info("extraction task created", "loi_id", loiID, "task_id", taskID)

	// Poll for result (the callback may complete it first)
	h.pollTaskResult(loiID, taskID)
}

// pollTaskResult polls for task completion
func (h *LOIHandler) pollTaskResult(loiID, taskID string) {
	maxAttempts := 60 // 5 minutes with 5 second intervals
	for i := 0; i < maxAttempts; i++ {
		time.Sleep(5 * time.Second)

		// Callback may have finished the LOI already
		current := h.store.Get(loiID)
		if current == nil || current.Status != model.LOIParsing {
			return
		}

		status, err := h.docparseService.GetTaskStatus(taskID)
		if err != nil {
			slog.Warn("extraction poll failed", "loi_id", loiID, "attempt", i+1, "error", err)
			continue
		}

		switch status.Data.State {
		case "done":
			if status.Data.ResultURL == "" {
				h.store.UpdateStatus(loiID, model.LOIFailed, "Extraction finished without a result")
				return
			}
			clauses, err := h.docparseService.FetchClausesResult(status.Data.ResultURL)
			if err != nil {
				slog.Error("failed to fetch clause payload", "loi_id", loiID, "error", err)
				h.store.UpdateStatus(loiID, model.LOIFailed, "Failed to fetch clauses: "+err.Error())
				return
			}
			h.store.UpdateClauses(loiID, clauses)
			slog.Info("clause extraction complete", "loi_id", loiID)
			return
		case "failed":
			h.store.UpdateStatus(loiID, model.LOIFailed, status.Data.ErrorMsg)
			return
		}
	}

	slog.Warn("extraction polling timeout", "loi_id", loiID)
	h.store.UpdateStatus(loiID, model.LOIFailed, "Extraction polling timeout")
}

// List returns all LOIs for the current tenant as summary rows, each
// with the route the UI should navigate to for that LOI.
func (h *LOIHandler) List(c *gin.Context) {
	tenant := middleware.GetTenant(c)
	lois := h.store.GetByTenant(tenant)

	result := make([]gin.H, 0, len(lois))
	for _, loi := range lois {
		item := gin.H{
			"id":         loi.ID,
			"filename":   loi.Filename,
			"status":     loi.Status,
			"created_at": loi.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			"updated_at": loi.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}

		// The route decision runs over the row's raw JSON form, the
		// same shape external list producers send.
		if row, err := json.Marshal(loi); err == nil {
			if route, ok := service.ResolveLOIRoute(row); ok {
				item["route"] = route
			}
		}

		result = append(result, item)
	}

	c.JSON(http.StatusOK, gin.H{"lois": result})
}

// Get returns a single LOI with its raw clause payload
func (h *LOIHandler) Get(c *gin.Context) {
	tenant := middleware.GetTenant(c)
	id := c.Param("id")

	loi := h.store.Get(id)
	if loi == nil || loi.Tenant != tenant {
		c.JSON(http.StatusNotFound, gin.H{"error": "LOI not found"})
		return
	}

	c.JSON(http.StatusOK, loi)
}

// GetStatus returns the extraction status of an LOI
func (h *LOIHandler) GetStatus(c *gin.Context) {
	tenant := middleware.GetTenant(c)
	id := c.Param("id")

	loi := h.store.Get(id)
	if loi == nil || loi.Tenant != tenant {
		c.JSON(http.StatusNotFound, gin.H{"error": "LOI not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":        loi.ID,
		"status":    loi.Status,
		"error_msg": loi.ErrorMsg,
	})
}

// Delete removes an LOI record and its stored document
func (h *LOIHandler) Delete(c *gin.Context) {
	tenant := middleware.GetTenant(c)
	id := c.Param("id")

	loi := h.store.Get(id)
	if loi == nil || loi.Tenant != tenant {
		c.JSON(http.StatusNotFound, gin.H{"error": "LOI not found"})
		return
	}

	// Best effort: a missing object must not strand the record
	if err := h.documents.DeleteDocument(c.Request.Context(), objectName(loi)); err != nil {
		slog.Warn("failed to delete stored document", "loi_id", id, "error", err)
	}

	h.store.Delete(id)

	c.JSON(http.StatusOK, gin.H{"message": "LOI deleted"})
}
