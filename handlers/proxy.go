package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httputil"
	"net/url"

	"qrhub-admin/i18n"
	"qrhub-admin/middleware"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type (
	proxyTokenKey  struct{}
	proxyLocaleKey struct{}
)

// NewBackendProxy forwards authenticated requests to the QRHub backend with
// the session's bearer token. Dashboard cookies are not forwarded.
func NewBackendProxy(target *url.URL, log *logrus.Entry) gin.HandlerFunc {
	proxy := &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(target)
			r.SetXForwarded()
			r.Out.Header.Del("Cookie")
			r.Out.Header.Del("Authorization")
			if token, _ := r.In.Context().Value(proxyTokenKey{}).(string); token != "" {
				r.Out.Header.Set("Authorization", "Bearer "+token)
			}
		},
		ModifyResponse: func(res *http.Response) error {
			if res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden {
				res.Header.Set(ReauthHeader, "true")
			}
			return nil
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log.WithError(err).WithField("path", r.URL.Path).Warn("Backend proxy failed")
			locale, _ := r.Context().Value(proxyLocaleKey{}).(string)
			if locale == "" {
				locale = i18n.Default
			}
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusBadGateway)
			_ = json.NewEncoder(w).Encode(gin.H{"error": i18n.T(locale, i18n.MsgServerError)})
		},
	}

	return func(c *gin.Context) {
		ctx := context.WithValue(c.Request.Context(), proxyTokenKey{}, middleware.BackendToken(c))
		ctx = context.WithValue(ctx, proxyLocaleKey{}, middleware.Locale(c))
		proxy.ServeHTTP(c.Writer, c.Request.WithContext(ctx))
	}
}
