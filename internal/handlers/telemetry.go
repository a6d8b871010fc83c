package handlers

import (
	"net/http"
	"time"

	"cultivation_monitor/internal/models"

	"github.com/gin-gonic/gin"
)

const errInvalidBodyPref = "invalid body: "

// Request DTO for pushing a sensor reading.
type readingRequest struct {
	ZoneID    string     `json:"zone_id" binding:"required"`
	Metric    string     `json:"metric" binding:"required"` // water_level | nutrient_ec | ph | temperature
	Value     float64    `json:"value"`
	Timestamp *time.Time `json:"timestamp,omitempty"` // defaults to now
}

// Request DTO for pushing a classification result.
type classificationRequest struct {
	ZoneID     string     `json:"zone_id" binding:"required"`
	Label      string     `json:"label" binding:"required"` // healthy | nutrient_deficiency | fungal_infection | pest_damage | unknown
	Confidence float64    `json:"confidence"`
	Timestamp  *time.Time `json:"timestamp,omitempty"`
}

// @Summary      Push sensor reading
// @Description  Normalizes and appends one reading; out-of-range values are recorded as invalid.
// @Tags         telemetry
// @Accept       json
// @Produce      json
// @Param        body  body  readingRequest  true  "Reading payload"
// @Success      202  {object}  map[string]interface{}  "accepted event"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/telemetry [post]
// @Security     BearerAuth
func (h *Handler) postReading(c *gin.Context) {
	var req readingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	r := models.SensorReading{
		ZoneID: req.ZoneID,
		Metric: models.Metric(req.Metric),
		Value:  req.Value,
	}
	if req.Timestamp != nil {
		r.Timestamp = *req.Timestamp
	}

	ev, err := h.services.Ingest.SubmitReading(c.Request.Context(), r)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"event": ev})
}

// @Summary      Push classification result
// @Description  Normalizes and appends one leaf classification; low-confidence results are recorded as invalid.
// @Tags         telemetry
// @Accept       json
// @Produce      json
// @Param        body  body  classificationRequest  true  "Classification payload"
// @Success      202  {object}  map[string]interface{}  "accepted event"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/classifications [post]
// @Security     BearerAuth
func (h *Handler) postClassification(c *gin.Context) {
	var req classificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	cr := models.ClassificationResult{
		ZoneID:     req.ZoneID,
		Label:      models.Label(req.Label),
		Confidence: req.Confidence,
	}
	if req.Timestamp != nil {
		cr.Timestamp = *req.Timestamp
	}

	ev, err := h.services.Ingest.SubmitClassification(c.Request.Context(), cr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"event": ev})
}
