package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"gitlab.com/voltsense1/enm.energy_server/src/production/ENM.ApiService/implementation/consumption"
	enmmodels "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Models"
)

func newConsumptionRouter() *gin.Engine {
	devices := &stubDeviceRepo{devices: []enmmodels.Device{{ID: 1, Name: "Geladeira", Port: "A0"}}}
	readings := &stubReadingRepo{readings: []enmmodels.Reading{
		{DeviceID: 1, EnergyWh: 50, DurationMin: 10, CreatedAt: time.Now().Add(-2 * time.Hour)},
		{DeviceID: 1, EnergyWh: 150, DurationMin: 20, CreatedAt: time.Now().Add(-1 * time.Hour)},
	}}
	log := webhookTestLogger()
	service := consumption.NewService(devices, readings, 0.95, log)

	router := gin.New()
	NewConsumptionController(service, log).RegisterRoutes(router)
	return router
}

func getJSON(t *testing.T, router *gin.Engine, url string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body map[string]interface{}
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func TestGetConsumption(t *testing.T) {
	router := newConsumptionRouter()

	rec, body := getJSON(t, router, "/consumption?device_id=1&period=total")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	summary, ok := body["summary"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing summary in response: %v", body)
	}
	if summary["total_wh"] != "200.00" {
		t.Errorf("total_wh = %v, want 200.00", summary["total_wh"])
	}
	if summary["total_cost"] != "0.19" {
		t.Errorf("total_cost = %v, want 0.19", summary["total_cost"])
	}
	if body["period"] != "total" {
		t.Errorf("period = %v, want total", body["period"])
	}
}

func TestGetConsumptionDefaultsPeriod(t *testing.T) {
	router := newConsumptionRouter()

	rec, body := getJSON(t, router, "/consumption")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body["period"] != "total" {
		t.Errorf("period = %v, want total by default", body["period"])
	}
}

func TestGetConsumptionUnknownDevice(t *testing.T) {
	router := newConsumptionRouter()

	rec, _ := getJSON(t, router, "/consumption?device_id=999")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestGetConsumptionInvalidParams(t *testing.T) {
	router := newConsumptionRouter()

	rec, _ := getJSON(t, router, "/consumption?device_id=abc")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid device_id: status = %d, want 400", rec.Code)
	}

	rec, _ = getJSON(t, router, "/consumption?period=yesterday")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid period: status = %d, want 400", rec.Code)
	}
}
