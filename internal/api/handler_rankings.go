package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetRankings serves the rotator's current tier and top-10 entries.
func (h *Handler) GetRankings(c *gin.Context) {
	c.JSON(http.StatusOK, h.rankings.Snapshot())
}

// GetJournal serves the most recent audited operator actions.
func (h *Handler) GetJournal(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	entries, err := h.journal.Recent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
