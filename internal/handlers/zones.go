package handlers

import (
	"errors"
	"net/http"

	"cultivation_monitor/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusOK = "ok"

	errGetZoneState = "failed to load zone state"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      List zones
// @Tags         zones
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, zones"
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/zones [get]
// @Security     BearerAuth
func (h *Handler) listZones(c *gin.Context) {
	zones := h.services.Monitoring.ListZones(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"count": len(zones),
		"zones": zones,
	})
}

// @Summary      Get zone state
// @Description  Current health score/level and the recent event window for one zone.
// @Tags         zones
// @Produce      json
// @Param        id  path  string  true  "Zone ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/zones/{id}/state [get]
// @Security     BearerAuth
func (h *Handler) getZoneState(c *gin.Context) {
	zoneID := c.Param("id")
	st, err := h.services.Monitoring.GetZoneState(c.Request.Context(), zoneID)
	if err != nil {
		if errors.Is(err, service.ErrZoneNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "zone not found"})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errGetZoneState, "zone_get_state_failed", err, "zone", zoneID)
		return
	}
	c.JSON(http.StatusOK, st)
}
