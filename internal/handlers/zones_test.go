package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cultivation_monitor/internal/models"
	"cultivation_monitor/internal/service"
)

func TestZoneHandlers_ListAndGetState(t *testing.T) {
	auth := &mockAuth{parseID: 7}
	now := time.Now().UTC().Truncate(time.Second)
	mon := &mockMonitoring{
		zones: []string{"zone-a", "zone-b"},
		state: models.ZoneState{
			ZoneID:      "zone-a",
			HealthScore: 0.82,
			HealthLevel: models.HealthHealthy,
			LastUpdated: now,
			Window: []models.NormalizedEvent{
				{Kind: models.EventSensor, ZoneID: "zone-a", Valid: true, Metric: models.MetricPH, Value: 6.1, Timestamp: now},
			},
		},
	}
	s := &service.Service{
		Authorization: auth,
		Monitoring:    mon,
	}
	r := newTestRouter(s)

	// List requires auth → 401 without header
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/zones/", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without auth, got %d", w.Code)
	}

	// With auth → 200 and zone list
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/zones/", nil)
	for k, vv := range authHeader("valid") {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("list status=%d, body=%s", w.Code, w.Body.String())
	}
	var listResp struct {
		Count int      `json:"count"`
		Zones []string `json:"zones"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("unmarshal list: %v", err)
	}
	if listResp.Count != 2 || len(listResp.Zones) != 2 {
		t.Fatalf("unexpected list response: %+v", listResp)
	}

	// GET state → 200 with score, level, and window
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/zones/zone-a/state", nil)
	for k, vv := range authHeader("valid") {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("state status=%d, body=%s", w.Code, w.Body.String())
	}
	var st models.ZoneState
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("unmarshal state: %v", err)
	}
	if st.ZoneID != "zone-a" || st.HealthScore != 0.82 || st.HealthLevel != models.HealthHealthy {
		t.Fatalf("unexpected state: %+v", st)
	}
	if len(st.Window) != 1 {
		t.Fatalf("expected 1 window event, got %d", len(st.Window))
	}
	if mon.lastZoneID != "zone-a" {
		t.Fatalf("service got zone %q", mon.lastZoneID)
	}
}

func TestZoneHandlers_GetState_NotFound(t *testing.T) {
	auth := &mockAuth{parseID: 7}
	mon := &mockMonitoring{err: service.ErrZoneNotFound}
	s := &service.Service{
		Authorization: auth,
		Monitoring:    mon,
	}
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/zones/missing/state", nil)
	for k, vv := range authHeader("valid") {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown zone, got %d (body=%s)", w.Code, w.Body.String())
	}
}

func TestHealthEndpoint_NoAuthRequired(t *testing.T) {
	s := &service.Service{}
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("health status=%d", w.Code)
	}
	var out struct {
		Status string `json:"status"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Status != statusOK {
		t.Fatalf("expected status %q, got %q", statusOK, out.Status)
	}
}
