package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"qrhub-admin/dtos"
)

func TestCreateUser(t *testing.T) {
	env := newTestEnv(t)
	_, token := createSession(t, env.DB, 42, dtos.RoleSuperAdmin)

	body := map[string]interface{}{"username": "brandmgr", "password": "secret1", "role": "user", "brand_id": 2}
	w := env.serve(authRequest("POST", "/admin/users", body, token))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if users := resp["users"].([]interface{}); len(users) != 2 {
		t.Errorf("expected 2 users after refetch, got %d", len(users))
	}

	sent, _ := env.Backend.last("POST", "/api/v1/admin/users")
	var in dtos.UserInput
	json.Unmarshal(sent.Body, &in)
	if in.BrandID == nil || *in.BrandID != 2 {
		t.Errorf("expected brand_id forwarded, got %+v", in)
	}
}

func TestCreateUserRequiresPassword(t *testing.T) {
	env := newTestEnv(t)
	_, token := createSession(t, env.DB, 42, dtos.RoleAdmin)

	body := map[string]string{"username": "nopass", "role": "admin"}
	w := env.serve(authRequest("POST", "/admin/users", body, token))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
	if resp := parseResponse(w); resp["field"] != "password" {
		t.Errorf("expected password field error, got %v", resp)
	}
}

func TestCreateUserInvalidRole(t *testing.T) {
	env := newTestEnv(t)
	_, token := createSession(t, env.DB, 42, dtos.RoleAdmin)

	body := map[string]string{"username": "x", "password": "secret1", "role": "owner"}
	w := env.serve(authRequest("POST", "/admin/users", body, token))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
	if n := len(env.Backend.received()); n != 0 {
		t.Errorf("expected no backend call, got %d", n)
	}
}

func TestCreateUserConflictUsesBackendMessage(t *testing.T) {
	env := newTestEnv(t)
	_, token := createSession(t, env.DB, 42, dtos.RoleAdmin)

	body := map[string]string{"username": "admin42", "password": "secret1", "role": "admin"}
	w := env.serve(authRequest("POST", "/admin/users", body, token))

	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", w.Code)
	}
	if resp := parseResponse(w); resp["error"] != "Username already taken" {
		t.Errorf("expected backend message, got %v", resp["error"])
	}
}

func TestCreateUserConflictWithoutMessage(t *testing.T) {
	env := newTestEnv(t)
	_, token := createSession(t, env.DB, 42, dtos.RoleAdmin)
	env.Backend.fail("POST", "/api/v1/admin/users", http.StatusConflict, `{}`)

	body := map[string]string{"username": "dup", "password": "secret1", "role": "admin"}
	w := env.serve(authRequest("POST", "/admin/users", body, token))

	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", w.Code)
	}
	if resp := parseResponse(w); resp["error"] != "This username already exists." {
		t.Errorf("expected default conflict message, got %v", resp["error"])
	}
}

func TestUpdateUserWithoutPassword(t *testing.T) {
	env := newTestEnv(t)
	_, token := createSession(t, env.DB, 42, dtos.RoleAdmin)

	body := map[string]string{"username": "admin42", "role": "super_admin"}
	w := env.serve(authRequest("PUT", "/admin/users/42", body, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	sent, _ := env.Backend.last("PUT", "/api/v1/admin/users/42")
	var raw map[string]interface{}
	json.Unmarshal(sent.Body, &raw)
	if _, ok := raw["password"]; ok {
		t.Errorf("expected password omitted, got %v", raw)
	}
}

func TestBackendValidationErrorMessage(t *testing.T) {
	env := newTestEnv(t)
	_, token := createSession(t, env.DB, 42, dtos.RoleAdmin)
	env.Backend.fail("DELETE", "/api/v1/admin/users/42", http.StatusBadRequest, `{"errors":[{"msg":"Cannot delete yourself","path":"id"}]}`)

	w := env.serve(authRequest("DELETE", "/admin/users/42", nil, token))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
	if resp := parseResponse(w); resp["error"] != "Cannot delete yourself" {
		t.Errorf("expected first validation message, got %v", resp["error"])
	}
}

func TestUsersFilter(t *testing.T) {
	env := newTestEnv(t)
	_, token := createSession(t, env.DB, 42, dtos.RoleAdmin)
	env.Backend.users = append(env.Backend.users, dtos.User{ID: 43, Username: "scanner", Role: dtos.RoleUser})

	w := env.serve(authRequest("GET", "/admin/users?q=USER", nil, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	users := parseResponse(w)["users"].([]interface{})
	if len(users) != 1 || users[0].(map[string]interface{})["username"] != "scanner" {
		t.Errorf("unexpected users %v", users)
	}
}

func TestCreateUserSucceedsWhenRefetchFails(t *testing.T) {
	env := newTestEnv(t)
	_, token := createSession(t, env.DB, 42, dtos.RoleSuperAdmin)
	env.Backend.fail("GET", "/api/v1/admin/users", http.StatusServiceUnavailable, `{}`)

	body := map[string]interface{}{"username": "brandmgr", "password": "secret1", "role": "user"}
	w := env.serve(authRequest("POST", "/admin/users", body, token))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if resp["user"] == nil || resp["users"] != nil {
		t.Errorf("expected created user and null list, got %v", resp)
	}
	if n := env.Backend.count("POST", "/api/v1/admin/users"); n != 1 {
		t.Errorf("expected exactly one create, got %d", n)
	}
}
