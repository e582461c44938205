package handlers

import (
	"net/http"

	"qrhub-admin/i18n"
	"qrhub-admin/middleware"

	"github.com/gin-gonic/gin"
)

const localeCookieMaxAge = 365 * 24 * 60 * 60

func localeInfo(locale string) gin.H {
	return gin.H{
		"locale":  locale,
		"dir":     i18n.Direction(locale),
		"locales": i18n.Locales,
	}
}

// GetLocale reports the locale resolved for the request.
func GetLocale(c *gin.Context) {
	c.JSON(http.StatusOK, localeInfo(middleware.Locale(c)))
}

// SetLocale switches the locale by writing the NEXT_LOCALE cookie.
func SetLocale(c *gin.Context) {
	locale, ok := i18n.Supported(c.Param("locale"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": i18n.T(middleware.Locale(c), i18n.MsgNotFound)})
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(i18n.CookieName, locale, localeCookieMaxAge, "/", "", false, false)
	c.JSON(http.StatusOK, localeInfo(locale))
}
