package handlers

import (
	"context"
	"net/http"
	"testing"

	"qrhub-admin/dtos"
)

func TestDashboardSummary(t *testing.T) {
	env := newTestEnv(t)
	_, token := createSession(t, env.DB, 42, dtos.RoleAdmin)

	w := env.serve(authRequest("GET", "/admin/dashboard", nil, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if _, ok := resp["errors"]; ok {
		t.Errorf("expected no section errors, got %v", resp["errors"])
	}
	overview := resp["overview"].(map[string]interface{})
	if overview["qrCodes"].(map[string]interface{})["total"] != float64(1200) {
		t.Errorf("unexpected overview %v", overview)
	}
	if scans := resp["scanStats"].(map[string]interface{}); scans["period"] != "7d" {
		t.Errorf("expected default scan period 7d, got %v", scans["period"])
	}
	if batches := resp["batchStats"].(map[string]interface{}); batches["period"] != "30d" {
		t.Errorf("expected default batch period 30d, got %v", batches["period"])
	}
	if activity := resp["activity"].([]interface{}); len(activity) != 1 {
		t.Errorf("expected 1 activity item, got %d", len(activity))
	}

	sent, _ := env.Backend.last("GET", "/api/v1/admin/dashboard/activity")
	if sent.Query.Get("limit") != "10" {
		t.Errorf("expected activity limit 10, got %q", sent.Query.Get("limit"))
	}
}

func TestDashboardSummaryPartialFailure(t *testing.T) {
	env := newTestEnv(t)
	_, token := createSession(t, env.DB, 42, dtos.RoleAdmin)
	env.Backend.fail("GET", "/api/v1/admin/dashboard/health", http.StatusInternalServerError, `{"message":"db down"}`)

	w := env.serve(authRequest("GET", "/admin/dashboard", nil, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp["health"] != nil {
		t.Errorf("expected empty health section, got %v", resp["health"])
	}
	errs := resp["errors"].(map[string]interface{})
	if errs["health"] != "A server error occurred. Please try again later." {
		t.Errorf("unexpected health error %v", errs["health"])
	}
	if len(errs) != 1 {
		t.Errorf("expected only health to fail, got %v", errs)
	}
	if resp["overview"] == nil || resp["scanStats"] == nil {
		t.Error("expected other sections to load")
	}
}

func TestDashboardSummaryPeriods(t *testing.T) {
	env := newTestEnv(t)
	_, token := createSession(t, env.DB, 42, dtos.RoleAdmin)

	w := env.serve(authRequest("GET", "/admin/dashboard?scanPeriod=90d&batchPeriod=7d", nil, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp["scanStats"].(map[string]interface{})["period"] != "90d" {
		t.Errorf("expected scan period 90d, got %v", resp["scanStats"])
	}
	if resp["batchStats"].(map[string]interface{})["period"] != "7d" {
		t.Errorf("expected batch period 7d, got %v", resp["batchStats"])
	}
}

func TestDashboardInvalidPeriod(t *testing.T) {
	env := newTestEnv(t)
	_, token := createSession(t, env.DB, 42, dtos.RoleAdmin)

	for _, path := range []string{"/admin/dashboard?scanPeriod=1y", "/admin/dashboard/scans?period=14d", "/admin/dashboard/batches?period=x"} {
		w := env.serve(authRequest("GET", path, nil, token))
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected status 400, got %d", path, w.Code)
		}
	}
	if n := len(env.Backend.received()); n != 0 {
		t.Errorf("expected no backend calls, got %d", n)
	}
}

func TestDashboardSectionsAreCached(t *testing.T) {
	env := newTestEnv(t)
	_, token := createSession(t, env.DB, 42, dtos.RoleAdmin)

	for i := 0; i < 2; i++ {
		w := env.serve(authRequest("GET", "/admin/dashboard/overview", nil, token))
		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}
	}

	if n := env.Backend.count("GET", "/api/v1/admin/dashboard/overview"); n != 1 {
		t.Errorf("expected one backend call, got %d", n)
	}
	if _, ok, _ := env.Cache.Get(context.Background(), "dashboard:overview"); !ok {
		t.Error("expected overview to be cached")
	}
}

func TestDashboardFailuresAreNotCached(t *testing.T) {
	env := newTestEnv(t)
	_, token := createSession(t, env.DB, 42, dtos.RoleAdmin)
	env.Backend.fail("GET", "/api/v1/admin/dashboard/health", http.StatusUnauthorized, `{}`)

	w := env.serve(authRequest("GET", "/admin/dashboard/health", nil, token))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
	if w.Header().Get(ReauthHeader) != "true" {
		t.Error("expected re-auth header")
	}
	if _, ok, _ := env.Cache.Get(context.Background(), "dashboard:health"); ok {
		t.Error("expected failure not to be cached")
	}
}

func TestDashboardActivityLimit(t *testing.T) {
	env := newTestEnv(t)
	_, token := createSession(t, env.DB, 42, dtos.RoleAdmin)

	w := env.serve(authRequest("GET", "/admin/dashboard/activity?limit=25", nil, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	sent, _ := env.Backend.last("GET", "/api/v1/admin/dashboard/activity")
	if sent.Query.Get("limit") != "25" {
		t.Errorf("expected limit 25, got %q", sent.Query.Get("limit"))
	}
}
