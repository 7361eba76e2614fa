package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rolebrief/backend/engine"
	"github.com/rolebrief/backend/models"
	"github.com/rolebrief/backend/research"
	"github.com/rolebrief/backend/storage"
)

// SessionHandler handles onboarding session endpoints
type SessionHandler struct {
	engine   *engine.Engine
	research *research.Manager
}

// NewSessionHandler creates a new session handler. The research manager is
// optional; without it, session creation simply skips the background kickoff.
func NewSessionHandler(eng *engine.Engine, mgr *research.Manager) *SessionHandler {
	return &SessionHandler{
		engine:   eng,
		research: mgr,
	}
}

// CreateSession starts (or resumes) an onboarding session
// @Summary Create onboarding session
// @Description Create a new onboarding session. Posting an existing session_id returns the existing profile unchanged. Providing a company name kicks off background research.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param request body models.CreateSessionRequest true "Session seed"
// @Success 200 {object} models.JobProfile "Existing session"
// @Success 201 {object} models.JobProfile "New session created"
// @Failure 400 {object} models.ErrorResponse "Invalid request"
// @Failure 500 {object} models.ErrorResponse "Creation failed"
// @Router /sessions [post]
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req models.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "Invalid request body",
			Code:  http.StatusBadRequest,
		})
		return
	}

	profile, created, err := h.engine.CreateSession(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to create session",
			Code:    http.StatusInternalServerError,
			Details: err.Error(),
		})
		return
	}

	if created && req.CompanyName != "" && h.research != nil {
		h.research.KickoffResearch(profile.SessionID, req.CompanyName, req.CompanyWebsite)
	}

	if created {
		c.JSON(http.StatusCreated, profile)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// ListSessions lists recent onboarding sessions
// @Summary List sessions
// @Description List recent sessions, most recently updated first
// @Tags Sessions
// @Produce json
// @Param limit query int false "Maximum sessions to return" default(20)
// @Success 200 {object} models.SessionListResponse "Session list"
// @Failure 500 {object} models.ErrorResponse "Listing failed"
// @Router /sessions [get]
func (h *SessionHandler) ListSessions(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	sessions, err := h.engine.ListSessions(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to list sessions",
			Code:    http.StatusInternalServerError,
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.SessionListResponse{
		Sessions: sessions,
		Count:    len(sessions),
	})
}

// GetProfile returns the full profile snapshot for a session
// @Summary Get profile
// @Description Get the complete job profile for a session. Late event subscribers call this for the current state.
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} models.JobProfile "Profile snapshot"
// @Failure 404 {object} models.ErrorResponse "Session not found"
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetProfile(c *gin.Context) {
	profile, err := h.engine.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
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

	c.JSON(http.StatusOK, profile)
}

// GetStatus returns the completion checklist for a session
// @Summary Get session status
// @Description Get the completion checklist, percentage and background research state
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} models.StatusResponse "Status snapshot"
// @Failure 404 {object} models.ErrorResponse "Session not found"
// @Router /sessions/{id}/status [get]
func (h *SessionHandler) GetStatus(c *gin.Context) {
	sessionID := c.Param("id")

	status, researchState, err := h.engine.Status(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error: "Session not found",
				Code:  http.StatusNotFound,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "Failed to load session status",
			Code:    http.StatusInternalServerError,
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.StatusResponse{
		SessionID: sessionID,
		Status:    status,
		Research:  researchState,
	})
}

// HealthCheck returns server health status
// @Summary Health check
// @Description Check if the server is running
// @Tags System
// @Produce json
// @Success 200 {object} models.HealthResponse "Server is healthy"
// @Router /health [get]
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "healthy",
		Version:   "1.0.0",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
