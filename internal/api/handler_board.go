package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"escape-ops-console/internal/escalate"
	"escape-ops-console/internal/escort"
)

// GetBoard serves the fixed A/B/C occupancy board.
func (h *Handler) GetBoard(c *gin.Context) {
	slots, updatedAt := h.board.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"slots":     slots,
		"updatedAt": updatedAt,
	})
}

// GetAlert serves the currently escalated error, if any. The UI renders
// it as a non-dismissible modal with exactly the two actions below.
func (h *Handler) GetAlert(c *gin.Context) {
	record, state, active := h.alerts.Current()
	if !active {
		c.JSON(http.StatusOK, gin.H{"active": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"active": true,
		"state":  state.String(),
		"error":  record,
	})
}

// IgnoreAlert snoozes the displayed error without resolving it; it will
// resurface on the next poll.
func (h *Handler) IgnoreAlert(c *gin.Context) {
	if err := h.alerts.Ignore(); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// ResolveAlert resolves the displayed error against the backend.
func (h *Handler) ResolveAlert(c *gin.Context) {
	if err := h.alerts.Resolve(c.Request.Context()); err != nil {
		if errors.Is(err, escalate.ErrNothingDisplayed) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// GetEscort serves the current "walk this group to its room" prompt.
func (h *Handler) GetEscort(c *gin.Context) {
	entry, active := h.escort.Current()
	if !active {
		c.JSON(http.StatusOK, gin.H{"active": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"active": true,
		"room":   entry,
	})
}

// MarkGuided reports that staff escorted the prompted group.
func (h *Handler) MarkGuided(c *gin.Context) {
	if err := h.escort.Guided(c.Request.Context()); err != nil {
		if errors.Is(err, escort.ErrNothingPrompted) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
