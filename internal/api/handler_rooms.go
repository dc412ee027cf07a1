package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"escape-ops-console/internal/gameapi"
)

// The room table, error history and question stats are stateless
// passthroughs to the backend; the console adds no state of its own here.

// GetRooms serves the raw room table for the management page.
func (h *Handler) GetRooms(c *gin.Context) {
	rooms, err := h.client.ListRooms(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

// UpdateRoom rewrites a room's fields.
func (h *Handler) UpdateRoom(c *gin.Context) {
	var upd gameapi.RoomUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.client.UpdateRoom(c.Request.Context(), c.Param("id"), upd); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteRoom removes a room entry.
func (h *Handler) DeleteRoom(c *gin.Context) {
	if err := h.client.DeleteRoom(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// GetErrorHistory serves the full error log for the management page.
func (h *Handler) GetErrorHistory(c *gin.Context) {
	history, err := h.client.ErrorHistory(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"errors": history})
}

// ResolveErrorByID resolves a specific error from the history page,
// independent of the escalation modal.
func (h *Handler) ResolveErrorByID(c *gin.Context) {
	var req struct {
		ErrorId int64 `uri:"id" binding:"required"`
	}
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid error id"})
		return
	}
	if err := h.client.ResolveError(c.Request.Context(), req.ErrorId); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// GetQuestionStats serves the question statistics index.
func (h *Handler) GetQuestionStats(c *gin.Context) {
	data, err := h.client.QuestionStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}

// GetQuestionDetail serves the challenger answers for one question.
func (h *Handler) GetQuestionDetail(c *gin.Context) {
	data, err := h.client.QuestionDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}
