package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"testing"

	"qrhub-admin/dtos"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func productFields() map[string]string {
	return map[string]string{
		"brand_id":           "1",
		"model_name":         "Storm",
		"category":           "pod",
		"attributes[flavor]": "Grape",
		"attributes[mg]":     "50",
	}
}

func TestGetProductsPagination(t *testing.T) {
	env := newTestEnv(t)
	_, token := createSession(t, env.DB, 42, dtos.RoleAdmin)
	for i := 2; i <= 25; i++ {
		env.Backend.products = append(env.Backend.products, dtos.Product{ID: i, BrandID: 1, ModelName: fmt.Sprintf("Model %d", i), Category: "pod"})
	}

	w := env.serve(authRequest("GET", "/admin/products?page=2", nil, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if products := resp["products"].([]interface{}); len(products) != 10 {
		t.Errorf("expected 10 products, got %d", len(products))
	}
	page := resp["pagination"].(map[string]interface{})
	if page["page"] != float64(2) || page["totalPages"] != float64(3) || page["totalItems"] != float64(25) {
		t.Errorf("unexpected pagination %v", page)
	}
	if page["from"] != float64(11) || page["to"] != float64(20) {
		t.Errorf("unexpected range %v-%v", page["from"], page["to"])
	}
	if page["hasNext"] != true || page["hasPrev"] != true {
		t.Errorf("expected both directions available, got %v", page)
	}

	sent, _ := env.Backend.last("GET", "/api/v1/admin/products")
	if sent.Query.Get("page") != "2" || sent.Query.Get("limit") != "10" {
		t.Errorf("unexpected backend query %v", sent.Query)
	}
}

func TestCreateProductWithImage(t *testing.T) {
	env := newTestEnv(t)
	_, token := createSession(t, env.DB, 42, dtos.RoleAdmin)

	image := &formFile{field: "image", filename: "storm.png", contentType: "image/png", content: pngHeader}
	w := env.serve(multipartRequest("POST", "/admin/products", productFields(), image, token))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	sent, ok := env.Backend.last("POST", "/api/v1/admin/products")
	if !ok {
		t.Fatal("expected backend create")
	}
	for k, v := range productFields() {
		if sent.Form[k] != v {
			t.Errorf("expected form field %s=%q, got %q", k, v, sent.Form[k])
		}
	}
	if sent.File != "storm.png" {
		t.Errorf("expected image forwarded, got %q", sent.File)
	}

	resp := parseResponse(w)
	if resp["message"] != "Product created successfully." {
		t.Errorf("unexpected message %v", resp["message"])
	}
	product := resp["product"].(map[string]interface{})
	if product["image_url"] != "/uploads/storm.png" {
		t.Errorf("unexpected product %v", product)
	}
}

func TestCreateProductWithoutImage(t *testing.T) {
	env := newTestEnv(t)
	_, token := createSession(t, env.DB, 42, dtos.RoleAdmin)

	w := env.serve(multipartRequest("POST", "/admin/products", productFields(), nil, token))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	sent, _ := env.Backend.last("POST", "/api/v1/admin/products")
	if sent.File != "" {
		t.Errorf("expected no image part, got %q", sent.File)
	}
}

func TestCreateProductRejectsBadImage(t *testing.T) {
	env := newTestEnv(t)
	_, token := createSession(t, env.DB, 42, dtos.RoleAdmin)

	image := &formFile{field: "image", filename: "notes.txt", contentType: "text/plain", content: []byte("hello")}
	w := env.serve(multipartRequest("POST", "/admin/products", productFields(), image, token))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
	if resp := parseResponse(w); resp["field"] != "image" {
		t.Errorf("expected image field error, got %v", resp)
	}
	if n := env.Backend.count("POST", "/api/v1/admin/products"); n != 0 {
		t.Errorf("expected no backend call, got %d", n)
	}
}

func TestCreateProductRejectsLargeImage(t *testing.T) {
	env := newTestEnv(t)
	_, token := createSession(t, env.DB, 42, dtos.RoleAdmin)

	big := bytes.Repeat([]byte{0}, 5<<20+1)
	image := &formFile{field: "image", filename: "big.png", contentType: "image/png", content: big}
	w := env.serve(multipartRequest("POST", "/admin/products", productFields(), image, token))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
	if resp := parseResponse(w); resp["error"] != "Image must not exceed 5MB." {
		t.Errorf("unexpected error %v", resp["error"])
	}
}

func TestCreateProductMissingFields(t *testing.T) {
	env := newTestEnv(t)
	_, token := createSession(t, env.DB, 42, dtos.RoleAdmin)

	fields := productFields()
	delete(fields, "model_name")
	w := env.serve(multipartRequest("POST", "/admin/products", fields, nil, token))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
	if n := len(env.Backend.received()); n != 0 {
		t.Errorf("expected no backend call, got %d", n)
	}
}

func TestUpdateProduct(t *testing.T) {
	env := newTestEnv(t)
	_, token := createSession(t, env.DB, 42, dtos.RoleAdmin)

	fields := productFields()
	fields["model_name"] = "Cloud X"
	w := env.serve(multipartRequest("PUT", "/admin/products/1", fields, nil, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	product := parseResponse(w)["product"].(map[string]interface{})
	if product["model_name"] != "Cloud X" {
		t.Errorf("unexpected product %v", product)
	}
}

func TestDeleteProduct(t *testing.T) {
	env := newTestEnv(t)
	_, token := createSession(t, env.DB, 42, dtos.RoleAdmin)

	w := env.serve(authRequest("DELETE", "/admin/products/1", nil, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if products := resp["products"].([]interface{}); len(products) != 0 {
		t.Errorf("expected empty list, got %d", len(products))
	}
	if resp["message"] != "Product deleted successfully." {
		t.Errorf("unexpected message %v", resp["message"])
	}
}

func TestCreateProductSucceedsWhenRefetchFails(t *testing.T) {
	env := newTestEnv(t)
	_, token := createSession(t, env.DB, 42, dtos.RoleAdmin)
	env.Backend.fail("GET", "/api/v1/admin/products", http.StatusInternalServerError, `{"message":"db down"}`)

	w := env.serve(multipartRequest("POST", "/admin/products", productFields(), nil, token))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if resp["product"] == nil {
		t.Error("expected created product in response")
	}
	if resp["products"] != nil || resp["pagination"] != nil {
		t.Errorf("expected empty list after failed refetch, got %v / %v", resp["products"], resp["pagination"])
	}
	if n := env.Backend.count("POST", "/api/v1/admin/products"); n != 1 {
		t.Errorf("expected exactly one create, got %d", n)
	}
}

func TestDeleteProductSucceedsWhenRefetchFails(t *testing.T) {
	env := newTestEnv(t)
	_, token := createSession(t, env.DB, 42, dtos.RoleAdmin)
	env.Backend.fail("GET", "/api/v1/admin/products", http.StatusBadGateway, `{}`)

	w := env.serve(authRequest("DELETE", "/admin/products/1", nil, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if resp := parseResponse(w); resp["message"] == nil {
		t.Errorf("expected success message, got %v", resp)
	}
}
