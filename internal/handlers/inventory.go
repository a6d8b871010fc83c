package handlers

import (
	"errors"
	"net/http"
	"time"

	"cultivation_monitor/internal/service"

	"github.com/gin-gonic/gin"
)

// Request DTO for recording a replenishment.
type replenishmentRequest struct {
	Quantity  float64    `json:"quantity" binding:"required"`
	Timestamp *time.Time `json:"timestamp,omitempty"` // defaults to now
}

// @Summary      Get depletion forecast
// @Description  Latest derived forecast; estimated_depletion is absent when usage is flat or data insufficient.
// @Tags         inventory
// @Produce      json
// @Param        id  path  string  true  "Resource ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/inventory/{id}/forecast [get]
// @Security     BearerAuth
func (h *Handler) getForecast(c *gin.Context) {
	resourceID := c.Param("id")
	f, err := h.services.Inventory.GetForecast(c.Request.Context(), resourceID)
	if err != nil {
		if errors.Is(err, service.ErrResourceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load forecast", "forecast_get_failed", err, "resource", resourceID)
		return
	}
	c.JSON(http.StatusOK, f)
}

// @Summary      Record replenishment
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "Resource ID"
// @Param        body  body  replenishmentRequest  true  "Replenishment payload"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/inventory/{id}/replenish [post]
// @Security     BearerAuth
func (h *Handler) postReplenishment(c *gin.Context) {
	resourceID := c.Param("id")

	var req replenishmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	ts := time.Now().UTC()
	if req.Timestamp != nil {
		ts = *req.Timestamp
	}

	if err := h.services.Inventory.RecordReplenishment(c.Request.Context(), resourceID, req.Quantity, ts); err != nil {
		if errors.Is(err, service.ErrResourceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "recorded"})
}
