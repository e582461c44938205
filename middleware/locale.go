package middleware

import (
	"context"
	"net/http"
	"strings"

	"qrhub-admin/i18n"

	"github.com/gin-gonic/gin"
)

const (
	KeyLocale = "locale"

	keyRedispatched = "locale_redispatched"
)

type prefixLocaleKey struct{}

// LocaleMiddleware resolves the request locale from the path prefix, the
// locale query parameter, the NEXT_LOCALE cookie and Accept-Language, in
// that order.
func LocaleMiddleware(fallback string) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, _ := c.Cookie(i18n.CookieName)
		locale := i18n.Resolve(
			requestPathLocale(c.Request),
			c.Query("locale"),
			cookie,
			c.GetHeader("Accept-Language"),
			fallback,
		)

		c.Set(KeyLocale, locale)
		c.Header("Content-Language", locale)
		c.Next()
	}
}

// Locale returns the locale resolved for the request.
func Locale(c *gin.Context) string {
	if l := c.GetString(KeyLocale); l != "" {
		return l
	}
	return i18n.Default
}

// StripLocalePrefix is a NoRoute handler serving /ar, /en and /zh prefixed
// paths. The prefix is removed and the request dispatched again, with the
// prefix still taking precedence in LocaleMiddleware. Anything else is 404.
func StripLocalePrefix(engine *gin.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		locale, rest, ok := splitLocalePrefix(c.Request.URL.Path)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": i18n.T(Locale(c), i18n.MsgNotFound)})
			return
		}

		req := c.Request.WithContext(context.WithValue(c.Request.Context(), prefixLocaleKey{}, locale))
		u := *req.URL
		u.Path, u.RawPath = rest, ""
		req.URL = &u
		req.Header = req.Header.Clone()
		if id := c.GetString(KeyRequestID); id != "" {
			req.Header.Set(RequestIDHeader, id)
		}

		c.Request = req
		engine.HandleContext(c)
		// c.handlers now belongs to the inner dispatch, which also logged
		// the request; nothing of the outer chain may run after this.
		c.Set(keyRedispatched, true)
		c.Abort()
	}
}

func splitLocalePrefix(p string) (locale, rest string, ok bool) {
	trimmed := strings.TrimPrefix(p, "/")
	head, tail := trimmed, ""
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		head, tail = trimmed[:i], trimmed[i:]
	}
	// Supported is case-insensitive; prefixes must be exact.
	if l, found := i18n.Supported(head); !found || l != head {
		return "", "", false
	}
	if tail == "" {
		tail = "/"
	}
	return head, tail, true
}

func requestPathLocale(r *http.Request) string {
	if l, ok := r.Context().Value(prefixLocaleKey{}).(string); ok {
		return l
	}
	return pathLocale(r.URL.Path)
}

func pathLocale(p string) string {
	p = strings.TrimPrefix(p, "/")
	if i := strings.IndexByte(p, '/'); i >= 0 {
		p = p[:i]
	}
	if l, ok := i18n.Supported(p); ok {
		return l
	}
	return ""
}
