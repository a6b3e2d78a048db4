package handlers

import (
	"errors"
	"net/http"
	"strings"

	"janken_backend/internal/domain"
	"janken_backend/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// StartSessionRequest represents the session creation request
type StartSessionRequest struct {
	Users []string `json:"users" binding:"required,min=2,dive,required"`
}

// SubmitChoiceRequest represents one user's hand submission
type SubmitChoiceRequest struct {
	User string `json:"user" binding:"required"`
	Hand string `json:"hand" binding:"required"`
}

// StartSession handles POST /sessions
func (h *Handler) StartSession(c *gin.Context) {
	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	sessionID, err := h.GameService.StartSession(c.Request.Context(), req.Users)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.SessionsStarted.Inc()
	c.JSON(http.StatusCreated, gin.H{"session_id": sessionID})
}

// StartSessionLegacy handles GET /janken/start?users=a,b for the old
// query-string clients. Comma-separated, blanks dropped.
func (h *Handler) StartSessionLegacy(c *gin.Context) {
	var users []string
	for _, u := range strings.Split(c.Query("users"), ",") {
		if u = strings.TrimSpace(u); u != "" {
			users = append(users, u)
		}
	}

	sessionID, err := h.GameService.StartSession(c.Request.Context(), users)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.SessionsStarted.Inc()
	c.JSON(http.StatusCreated, gin.H{"session_id": sessionID})
}

// SubmitChoice handles POST /sessions/:id/choices
func (h *Handler) SubmitChoice(c *gin.Context) {
	var req SubmitChoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	h.submitChoice(c, c.Param("id"), req.User, req.Hand)
}

// SubmitChoiceLegacy handles GET /janken/:id/choice/:user/:hand
func (h *Handler) SubmitChoiceLegacy(c *gin.Context) {
	h.submitChoice(c, c.Param("id"), c.Param("user"), c.Param("hand"))
}

func (h *Handler) submitChoice(c *gin.Context, sessionID, user, hand string) {
	sessionID, err := h.GameService.SubmitChoice(c.Request.Context(), sessionID, user, hand)
	if err != nil {
		if errors.Is(err, domain.ErrLockContention) {
			middleware.LockContention.Inc()
		}
		respondError(c, err)
		return
	}

	middleware.ChoicesSubmitted.Inc()
	c.JSON(http.StatusOK, gin.H{"session_id": sessionID})
}

// GetSession handles GET /sessions/:id
func (h *Handler) GetSession(c *gin.Context) {
	sess, err := h.GameService.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": sess.ID,
		"users":      sess.Users,
	})
}

// GetResult handles GET /sessions/:id/result
func (h *Handler) GetResult(c *gin.Context) {
	result, err := h.GameService.GetResult(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// respondError maps a business error to an HTTP status. Lock contention
// is a 409: the client is expected to retry with backoff.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrNotInSession):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyChosen),
		errors.Is(err, domain.ErrSessionNotClosed),
		errors.Is(err, domain.ErrInvalidHand),
		errors.Is(err, domain.ErrNotEnoughUsers):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrSessionExists),
		errors.Is(err, domain.ErrLockContention):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
