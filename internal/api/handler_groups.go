package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"escape-ops-console/internal/lifecycle"
)

// GetGroups serves the lifecycle panel: groups sorted by hand-out
// priority with action gating applied.
func (h *Handler) GetGroups(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"groups": h.groups.Snapshot()})
}

// PrintCertificate issues or reissues a group's completion certificate
// and returns the PDF filename the UI fetches from the backend.
func (h *Handler) PrintCertificate(c *gin.Context) {
	filename, err := h.groups.PrintCertificate(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"filename": filename})
}

// GiveSnack records the snack hand-out for a group.
func (h *Handler) GiveSnack(c *gin.Context) {
	if err := h.groups.GiveSnack(c.Request.Context(), c.Param("id")); err != nil {
		h.respondLifecycleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) respondLifecycleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, lifecycle.ErrUnknownGroup):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, lifecycle.ErrNotCleared), errors.Is(err, lifecycle.ErrSnackNotOwed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}
