package delivery

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"uniwork-backend/internal/sync/repository"
	"uniwork-backend/internal/sync/usecase"
	"uniwork-backend/pkg/faults"

	"github.com/gin-gonic/gin"
)

// SyncHandler exposes sync triggers and the synced data.
type SyncHandler struct {
	orchestrator *usecase.Orchestrator
	emailRepo    repository.EmailRepository
	calendarRepo repository.CalendarRepository
}

func NewSyncHandler(orchestrator *usecase.Orchestrator, emailRepo repository.EmailRepository, calendarRepo repository.CalendarRepository) *SyncHandler {
	return &SyncHandler{
		orchestrator: orchestrator,
		emailRepo:    emailRepo,
		calendarRepo: calendarRepo,
	}
}

// POST /api/sync runs an interactive sync for the signed-in user
func (h *SyncHandler) SyncMe(c *gin.Context) {
	userID := c.GetString("userID")

	reports, err := h.orchestrator.SyncUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, faults.ErrNeedsReauth) {
			// The client must re-run Google consent; this is not a retryable
			// server error and gets its own signal.
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":           "google account needs to be reconnected",
				"reauth_required": true,
			})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

// POST /api/cron/sync runs a scheduler-triggered batch sync over all users
func (h *SyncHandler) SyncAll(c *gin.Context) {
	report, err := h.orchestrator.SyncAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}

// GET /api/emails?limit=50&offset=0
func (h *SyncHandler) GetEmails(c *gin.Context) {
	userID := c.GetString("userID")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	emails, err := h.emailRepo.GetEmails(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"emails": emails})
}

// GET /api/emails/threads/:id
func (h *SyncHandler) GetThread(c *gin.Context) {
	userID := c.GetString("userID")

	thread, emails, err := h.emailRepo.GetThread(userID, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if thread == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "thread not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"thread": thread, "emails": emails})
}

// GET /api/calendar/events?days=7
func (h *SyncHandler) GetEvents(c *gin.Context) {
	userID := c.GetString("userID")
	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))

	now := time.Now()
	events, err := h.calendarRepo.GetEvents(userID, now, now.AddDate(0, 0, days))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}
