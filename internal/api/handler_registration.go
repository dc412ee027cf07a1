package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"escape-ops-console/internal/register"
)

// GetRegistration serves the registration workflow state: phase, form
// contents, pending duplicate and any result banner.
func (h *Handler) GetRegistration(c *gin.Context) {
	c.JSON(http.StatusOK, h.registration.Snapshot())
}

// SubmitRegistration validates and submits a new challenger group.
func (h *Handler) SubmitRegistration(c *gin.Context) {
	var form register.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome, err := h.registration.Submit(c.Request.Context(), form)
	h.respondRegistration(c, outcome, err)
}

// ConfirmRegistration resubmits the pending payload with the duplicate
// override set.
func (h *Handler) ConfirmRegistration(c *gin.Context) {
	outcome, err := h.registration.Confirm(c.Request.Context())
	h.respondRegistration(c, outcome, err)
}

// DeclineRegistration closes the duplicate dialog, keeping the form
// intact for editing.
func (h *Handler) DeclineRegistration(c *gin.Context) {
	if err := h.registration.Decline(); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.registration.Snapshot())
}

func (h *Handler) respondRegistration(c *gin.Context, outcome register.Outcome, err error) {
	var invalid *register.ValidationError
	switch {
	case errors.As(err, &invalid):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"outcome": "invalid",
			"fields":  invalid.Fields,
		})
	case errors.Is(err, register.ErrBusy), errors.Is(err, register.ErrNoPendingDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case outcome == register.Duplicate:
		c.JSON(http.StatusOK, gin.H{
			"outcome": "duplicate",
			"state":   h.registration.Snapshot(),
		})
	case err != nil:
		c.JSON(http.StatusOK, gin.H{
			"outcome": "failed",
			"state":   h.registration.Snapshot(),
		})
	default:
		c.JSON(http.StatusOK, gin.H{
			"outcome": "registered",
			"state":   h.registration.Snapshot(),
		})
	}
}
