package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"qrhub-admin/generator"
	"qrhub-admin/middleware"
	"qrhub-admin/qrhub"

	"github.com/gin-gonic/gin"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		verbatim   bool
		wantStatus int
		wantError  string
	}{
		{"closed workflow is retryable", generator.ErrClosed, false, http.StatusConflict, "The generator was reset. Please try again."},
		{"wrapped closed workflow", fmt.Errorf("submit: %w", generator.ErrClosed), false, http.StatusConflict, "The generator was reset. Please try again."},
		{"server error generic", &qrhub.APIError{StatusCode: 503, Message: "Queue paused"}, false, http.StatusBadGateway, "A server error occurred. Please try again later."},
		{"server error verbatim", &qrhub.APIError{StatusCode: 503, Message: "Queue paused"}, true, http.StatusBadGateway, "Queue paused"},
		{"not found verbatim", &qrhub.APIError{StatusCode: 404, Message: "No such batch"}, true, http.StatusNotFound, "No such batch"},
		{"verbatim without message", &qrhub.APIError{StatusCode: 404}, true, http.StatusNotFound, "The requested resource could not be found."},
		{"conflict keeps backend message", &qrhub.APIError{StatusCode: 409, Message: "Taken"}, false, http.StatusConflict, "Taken"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(middleware.LocaleMiddleware("en"))
			r.GET("/", func(c *gin.Context) {
				if tt.verbatim {
					respondBackendError(c, tt.err)
					return
				}
				respondError(c, tt.err)
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if resp := parseResponse(w); resp["error"] != tt.wantError {
				t.Errorf("expected error %q, got %v", tt.wantError, resp["error"])
			}
		})
	}
}
