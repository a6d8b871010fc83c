package handlers

import (
	"context"
	"net/http"
	"time"

	"cultivation_monitor/internal/models"
	"cultivation_monitor/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockIngest struct {
	readingEvent models.NormalizedEvent
	readingErr   error
	classEvent   models.NormalizedEvent
	classErr     error

	lastReading models.SensorReading
	lastClass   models.ClassificationResult
	readings    int
	classes     int
}

func (m *mockIngest) SubmitReading(ctx context.Context, r models.SensorReading) (models.NormalizedEvent, error) {
	m.readings++
	m.lastReading = r
	return m.readingEvent, m.readingErr
}
func (m *mockIngest) SubmitClassification(ctx context.Context, c models.ClassificationResult) (models.NormalizedEvent, error) {
	m.classes++
	m.lastClass = c
	return m.classEvent, m.classErr
}

type mockMonitoring struct {
	state models.ZoneState
	err   error
	zones []string

	lastZoneID string
}

func (m *mockMonitoring) GetZoneState(ctx context.Context, zoneID string) (models.ZoneState, error) {
	m.lastZoneID = zoneID
	return m.state, m.err
}
func (m *mockMonitoring) ListZones(ctx context.Context) []string {
	return m.zones
}

type mockAlerts struct {
	open   []models.Alert
	ackErr error

	lastSubject string
	lastAckID   string
	ackCalls    int
}

func (m *mockAlerts) ListOpen(ctx context.Context, subjectID string) []models.Alert {
	m.lastSubject = subjectID
	return m.open
}
func (m *mockAlerts) Acknowledge(ctx context.Context, alertID string) error {
	m.ackCalls++
	m.lastAckID = alertID
	return m.ackErr
}

type mockInventory struct {
	forecast     models.Forecast
	forecastErr  error
	replenishErr error

	lastResource string
	lastQty      float64
	lastTS       time.Time
	replenishes  int
}

func (m *mockInventory) RecordReplenishment(ctx context.Context, resourceID string, qty float64, ts time.Time) error {
	m.replenishes++
	m.lastResource = resourceID
	m.lastQty = qty
	m.lastTS = ts
	return m.replenishErr
}
func (m *mockInventory) GetForecast(ctx context.Context, resourceID string) (models.Forecast, error) {
	m.lastResource = resourceID
	return m.forecast, m.forecastErr
}

type mockAudit struct {
	resp []models.AlertTransition
	err  error

	lastFrom time.Time
	lastTo   time.Time
	lastKind string
}

func (m *mockAudit) ListTransitions(ctx context.Context, f service.LogFilter) ([]models.AlertTransition, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastKind = f.Kind
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
