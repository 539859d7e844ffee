package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	enmmodels "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Models"
)

func newDeviceRouter() (*gin.Engine, *stubDeviceRepo) {
	devices := &stubDeviceRepo{devices: []enmmodels.Device{{ID: 1, Name: "Geladeira", Port: "A0"}}}
	readings := &stubReadingRepo{readings: []enmmodels.Reading{
		{DeviceID: 1, EnergyWh: 1500, DurationMin: 60, CreatedAt: time.Now()},
	}}

	router := gin.New()
	NewDeviceController(devices, readings, 0.95, webhookTestLogger()).RegisterRoutes(router)
	return router, devices
}

func TestAssociateNameUpdatesExistingDevice(t *testing.T) {
	router, devices := newDeviceRouter()

	req := httptest.NewRequest(http.MethodPost, "/devices/associate",
		strings.NewReader(`{"port": "A0", "name": "Freezer"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if devices.devices[0].Name != "Freezer" {
		t.Errorf("device name = %q, want Freezer", devices.devices[0].Name)
	}
	if len(devices.devices) != 1 {
		t.Errorf("device count = %d, want 1 (update, not create)", len(devices.devices))
	}
}

func TestAssociateNameCreatesNewDevice(t *testing.T) {
	router, devices := newDeviceRouter()

	req := httptest.NewRequest(http.MethodPost, "/devices/associate",
		strings.NewReader(`{"port": "A3", "name": "Chuveiro", "description": "banheiro"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if len(devices.devices) != 2 {
		t.Fatalf("device count = %d, want 2", len(devices.devices))
	}
	created := devices.devices[1]
	if created.Port != "A3" || created.Name != "Chuveiro" || created.Description != "banheiro" {
		t.Errorf("created device = %+v", created)
	}
}

func TestGetDeviceByPortNotFound(t *testing.T) {
	router, _ := newDeviceRouter()

	req := httptest.NewRequest(http.MethodGet, "/devices/port/Z9", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestGetDeviceSummary(t *testing.T) {
	router, _ := newDeviceRouter()

	req := httptest.NewRequest(http.MethodGet, "/devices/1/summary", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp map[string]interface{}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["total_wh"] != float64(1500) {
		t.Errorf("total_wh = %v, want 1500", resp["total_wh"])
	}
	if resp["total_kwh"] != 1.5 {
		t.Errorf("total_kwh = %v, want 1.5", resp["total_kwh"])
	}
	if resp["estimated_cost"] != "1.43" {
		t.Errorf("estimated_cost = %v, want 1.43", resp["estimated_cost"])
	}
}
