package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rolebrief/backend/engine"
	"github.com/rolebrief/backend/models"
	"github.com/rolebrief/backend/research"
	"github.com/rolebrief/backend/storage"
	"github.com/rolebrief/backend/utils"
)

// IngestHandler handles provider pushes and job description uploads
type IngestHandler struct {
	engine    *engine.Engine
	research  *research.Manager
	artifacts *storage.ArtifactStore
	extractor *utils.DocumentExtractor
}

// NewIngestHandler creates a new ingest handler. Research and artifacts are
// optional; without them documents are merged but neither archived nor
// extracted.
func NewIngestHandler(eng *engine.Engine, mgr *research.Manager, artifacts *storage.ArtifactStore) *IngestHandler {
	return &IngestHandler{
		engine:    eng,
		research:  mgr,
		artifacts: artifacts,
		extractor: utils.NewDocumentExtractor(),
	}
}

// BulkUpdate applies a batch of provider-proposed field updates
// @Summary Bulk field updates
// @Description Apply a batch of proposed field values from an automated provider (parallel_ai or jd_paste). Each proposal is merged independently under the confidence policy; rejected proposals carry reasons.
// @Tags Ingest
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body models.BulkUpdateRequest true "Proposed updates"
// @Success 200 {object} models.BulkUpdateResponse "Merge outcome"
// @Failure 400 {object} models.ErrorResponse "Invalid request"
// @Failure 404 {object} models.ErrorResponse "Session not found"
// @Router /sessions/{id}/updates [post]
func (h *IngestHandler) BulkUpdate(c *gin.Context) {
	var req models.BulkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "Invalid request body",
			Code:  http.StatusBadRequest,
		})
		return
	}

	resp, err := h.engine.ApplyBulkUpdate(c.Request.Context(), c.Param("id"), req.Source, req.Updates)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error: "Session not found",
				Code:  http.StatusNotFound,
			})
			return
		}
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Bulk update rejected",
			Code:    http.StatusBadRequest,
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// IngestDocument accepts a job description for background extraction
// @Summary Ingest job description
// @Description Accept a pasted or uploaded job description. The text is archived and handed to background extraction; merged fields arrive as jd_paste updates over the event stream.
// @Tags Ingest
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Session ID"
// @Param request body models.DocumentIngestRequest false "Pasted text (JSON)"
// @Param document_file formData file false "Job description file"
// @Param document_text formData string false "Job description text"
// @Success 202 {object} models.DocumentIngestResponse "Document accepted"
// @Failure 400 {object} models.ErrorResponse "No usable text"
// @Failure 404 {object} models.ErrorResponse "Session not found"
// @Router /sessions/{id}/documents [post]
func (h *IngestHandler) IngestDocument(c *gin.Context) {
	sessionID := c.Param("id")

	var text string
	if strings.Contains(c.ContentType(), "multipart/form-data") {
		file, header, err := c.Request.FormFile("document_file")
		if err != nil {
			text = c.PostForm("document_text")
		} else {
			defer file.Close()
			text, err = h.extractor.ExtractText(file, header)
			if err != nil {
				c.JSON(http.StatusBadRequest, models.ErrorResponse{
					Error:   "Failed to read document",
					Code:    http.StatusBadRequest,
					Details: err.Error(),
				})
				return
			}
			log.Printf("[Ingest] Received document file: %s", header.Filename)
		}
	} else {
		var req models.DocumentIngestRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error: "Invalid request body",
				Code:  http.StatusBadRequest,
			})
			return
		}
		text = req.Text
	}

	text = utils.CleanDocumentText(text)
	if text == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "Document text is required",
			Code:  http.StatusBadRequest,
		})
		return
	}

	if _, err := h.engine.GetProfile(c.Request.Context(), sessionID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error: "Session not found",
				Code:  http.StatusNotFound,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to load session",
			Code:    http.StatusInternalServerError,
			Details: err.Error(),
		})
		return
	}

	var artifactURL string
	if h.artifacts != nil {
		url, err := h.artifacts.SaveDocument(c.Request.Context(), sessionID, text)
		if err != nil {
			log.Printf("[Ingest] Failed to archive document for session %s: %v", sessionID, err)
		} else {
			artifactURL = url
		}
	}

	if h.research != nil {
		h.research.KickoffExtraction(sessionID, text)
	}

	c.JSON(http.StatusAccepted, models.DocumentIngestResponse{
		Message:     "Document accepted; extraction in progress",
		ArtifactURL: artifactURL,
	})
}
