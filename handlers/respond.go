package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"qrhub-admin/dtos"
	"qrhub-admin/generator"
	"qrhub-admin/i18n"
	"qrhub-admin/middleware"
	"qrhub-admin/qrhub"

	"github.com/gin-gonic/gin"
)

// ReauthHeader is set on responses whose backend call was rejected as
// unauthorized, so the dashboard can prompt for a new sign-in.
const ReauthHeader = "X-Reauth-Required"

// respondError maps err to a status code and a localized message.
func respondError(c *gin.Context, err error) {
	writeError(c, err, false)
}

// respondBackendError maps err like respondError, but surfaces the
// backend's own message for every status when it sent one. Generic
// messages remain the fallback.
func respondBackendError(c *gin.Context, err error) {
	writeError(c, err, true)
}

func writeError(c *gin.Context, err error, verbatim bool) {
	locale := middleware.Locale(c)

	var verr *dtos.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": i18n.T(locale, verr.Key), "field": verr.Field})
		return
	}

	switch {
	case errors.Is(err, generator.ErrConfirmationRequired):
		c.JSON(http.StatusPreconditionRequired, gin.H{"error": i18n.T(locale, i18n.MsgConfirmationRequired)})
		return
	case errors.Is(err, generator.ErrDownloadUnavailable):
		c.JSON(http.StatusNotFound, gin.H{"error": i18n.T(locale, i18n.MsgDownloadUnavailable)})
		return
	case errors.Is(err, generator.ErrNoActiveJob):
		c.JSON(http.StatusNotFound, gin.H{"error": i18n.T(locale, i18n.MsgNoActiveJob)})
		return
	case errors.Is(err, generator.ErrJobRunning):
		c.JSON(http.StatusConflict, gin.H{"error": i18n.T(locale, i18n.MsgJobRunning)})
		return
	case errors.Is(err, generator.ErrClosed):
		// closed under a live session by the idle sweep; the next
		// request gets a fresh workflow
		c.JSON(http.StatusConflict, gin.H{"error": i18n.T(locale, i18n.MsgWorkflowReset)})
		return
	}

	var apiErr *qrhub.APIError
	if !errors.As(err, &apiErr) {
		middleware.Logger(c).WithError(err).Error("Backend request failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": i18n.T(locale, i18n.MsgUnexpected)})
		return
	}

	generic := func(key string) string {
		if verbatim {
			return messageOr(apiErr, locale, key)
		}
		return i18n.T(locale, key)
	}

	switch {
	case errors.Is(err, qrhub.ErrUnauthorized):
		c.Header(ReauthHeader, "true")
		c.JSON(http.StatusUnauthorized, gin.H{"error": generic(i18n.MsgUnauthorized), "reauth": true})
	case errors.Is(err, qrhub.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": generic(i18n.MsgNotFound)})
	case errors.Is(err, qrhub.ErrServer):
		middleware.Logger(c).WithError(err).Warn("Backend server error")
		c.JSON(http.StatusBadGateway, gin.H{"error": generic(i18n.MsgServerError)})
	case errors.Is(err, qrhub.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": messageOr(apiErr, locale, i18n.MsgConflict)})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": messageOr(apiErr, locale, i18n.MsgRequestError)})
	}
}

// messageOr prefers the backend's own message.
func messageOr(apiErr *qrhub.APIError, locale, key string) string {
	if apiErr.Message != "" {
		return apiErr.Message
	}
	return i18n.T(locale, key)
}

// refetchFailed logs a list reload that failed after a successful write.
// The write is still reported as a success.
func refetchFailed(c *gin.Context, list string, err error) {
	middleware.Logger(c).WithError(err).WithField("list", list).Warn("Refetch after write failed")
}

func badRequest(c *gin.Context, key string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": i18n.T(middleware.Locale(c), key)})
}

// paramID parses a positive integer path parameter, replying 400 if it is
// not one.
func paramID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		badRequest(c, i18n.MsgInvalidID)
		return 0, false
	}
	return id, true
}

// queryPage reads the 1-indexed page query parameter.
func queryPage(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func success(c *gin.Context, key string, args ...any) string {
	return i18n.T(middleware.Locale(c), key, args...)
}
