package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"qrhub-admin/dtos"
	"qrhub-admin/i18n"
	"qrhub-admin/models"
	"qrhub-admin/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SessionCookie carries the dashboard session token.
const SessionCookie = "token"

// Context keys set by AuthMiddleware.
const (
	KeyUserID       = "user_id"
	KeyUserRole     = "user_role"
	KeyUsername     = "username"
	KeySession      = "session"
	KeyBackendToken = "backend_token"
)

// sessionToken reads the token from the session cookie, falling back to a
// Bearer Authorization header.
func sessionToken(c *gin.Context) (string, bool) {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie, true
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func AuthMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		locale := Locale(c)

		token, ok := sessionToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": i18n.T(locale, i18n.MsgUnauthorized)})
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": i18n.T(locale, i18n.MsgUnauthorized)})
			c.Abort()
			return
		}

		var session models.Session
		if err := db.First(&session, "id = ?", claims.SessionID).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusInternalServerError, gin.H{"error": i18n.T(locale, i18n.MsgServerError)})
				c.Abort()
				return
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": i18n.T(locale, i18n.MsgSessionRequired)})
			c.Abort()
			return
		}
		if !session.Active(time.Now()) || session.UserID != claims.UserID {
			c.JSON(http.StatusUnauthorized, gin.H{"error": i18n.T(locale, i18n.MsgSessionRequired)})
			c.Abort()
			return
		}

		backendToken, err := utils.OpenToken(session.BackendToken)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": i18n.T(locale, i18n.MsgSessionRequired)})
			c.Abort()
			return
		}

		c.Set(KeyUserID, session.UserID)
		c.Set(KeyUserRole, session.Role)
		c.Set(KeyUsername, session.Username)
		c.Set(KeySession, &session)
		c.Set(KeyBackendToken, backendToken)
		c.Next()
	}
}

// AdminMiddleware admits admin and super_admin users.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(KeyUserRole)
		if !exists || (role != dtos.RoleAdmin && role != dtos.RoleSuperAdmin) {
			c.JSON(http.StatusForbidden, gin.H{"error": i18n.T(Locale(c), i18n.MsgForbidden)})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentSession returns the session loaded by AuthMiddleware.
func CurrentSession(c *gin.Context) (*models.Session, bool) {
	v, ok := c.Get(KeySession)
	if !ok {
		return nil, false
	}
	s, ok := v.(*models.Session)
	return s, ok
}

// BackendToken returns the QRHub bearer token of the current session.
func BackendToken(c *gin.Context) string {
	return c.GetString(KeyBackendToken)
}
