package handlers

import (
	"errors"
	"net/http"
	"time"

	"qrhub-admin/dtos"
	"qrhub-admin/generator"
	"qrhub-admin/i18n"
	"qrhub-admin/middleware"
	"qrhub-admin/models"
	"qrhub-admin/qrhub"
	"qrhub-admin/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AuthHandler struct {
	DB           *gorm.DB
	API          *qrhub.Client
	Workflows    *generator.Store
	SessionTTL   time.Duration
	SecureCookie bool
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.SessionCookie, token, maxAge, "/", "", h.SecureCookie, true)
}

func profile(s *models.Session) gin.H {
	return gin.H{
		"id":         s.UserID,
		"username":   s.Username,
		"role":       s.Role,
		"brand_id":   s.BrandID,
		"locale":     s.Locale,
		"expires_at": s.ExpiresAt,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	locale := middleware.Locale(c)
	res, err := h.API.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		var apiErr *qrhub.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError && apiErr.StatusCode != http.StatusNotFound {
			c.JSON(http.StatusUnauthorized, gin.H{"error": i18n.T(locale, i18n.MsgInvalidCredentials)})
			return
		}
		respondError(c, err)
		return
	}

	if res.User.Role != dtos.RoleAdmin && res.User.Role != dtos.RoleSuperAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": i18n.T(locale, i18n.MsgForbidden)})
		return
	}

	sealed, err := utils.SealToken(res.Token)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": i18n.T(locale, i18n.MsgServerError)})
		return
	}

	session := models.Session{
		UserID:       res.User.ID,
		Username:     res.User.Username,
		Role:         res.User.Role,
		BrandID:      res.User.BrandID,
		BackendToken: sealed,
		Locale:       locale,
		ClientIP:     c.ClientIP(),
		UserAgent:    c.Request.UserAgent(),
		ExpiresAt:    time.Now().Add(h.SessionTTL),
	}
	if err := h.DB.Create(&session).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": i18n.T(locale, i18n.MsgServerError)})
		return
	}

	token, err := utils.GenerateToken(session.ID, session.UserID, session.Username, session.Role, h.SessionTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": i18n.T(locale, i18n.MsgServerError)})
		return
	}

	h.setSessionCookie(c, token, int(h.SessionTTL.Seconds()))

	middleware.Logger(c).WithFields(logrus.Fields{
		"user_id":    session.UserID,
		"session_id": session.ID,
	}).Info("Admin signed in")

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"user":    profile(&session),
		"message": i18n.T(locale, i18n.MsgSignedIn),
	})
}

// Logout revokes the session and stops its generator workflow. Jobs keep
// running on the backend.
func (h *AuthHandler) Logout(c *gin.Context) {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": i18n.T(middleware.Locale(c), i18n.MsgUnauthorized)})
		return
	}

	now := time.Now()
	if err := h.DB.Model(session).Update("revoked_at", now).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": i18n.T(middleware.Locale(c), i18n.MsgServerError)})
		return
	}
	h.Workflows.Close(session.ID)
	h.setSessionCookie(c, "", -1)

	c.JSON(http.StatusOK, gin.H{"message": success(c, i18n.MsgSignedOut)})
}

func (h *AuthHandler) Me(c *gin.Context) {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": i18n.T(middleware.Locale(c), i18n.MsgUnauthorized)})
		return
	}
	c.JSON(http.StatusOK, profile(session))
}

// UpdateProfile changes the signed-in admin's username and, optionally,
// password through the backend's user endpoint.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": i18n.T(middleware.Locale(c), i18n.MsgUnauthorized)})
		return
	}

	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"omitempty,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.SanitizeValidationError(err)})
		return
	}

	in := dtos.UserInput{
		Username: req.Username,
		Password: req.Password,
		Role:     session.Role,
		BrandID:  session.BrandID,
	}
	if err := in.Validate(false); err != nil {
		respondError(c, err)
		return
	}

	user, err := h.API.UpdateUser(c.Request.Context(), middleware.BackendToken(c), session.UserID, in)
	if err != nil {
		respondError(c, err)
		return
	}

	username := req.Username
	if user != nil && user.Username != "" {
		username = user.Username
	}
	if err := h.DB.Model(session).Update("username", username).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": i18n.T(middleware.Locale(c), i18n.MsgServerError)})
		return
	}
	session.Username = username

	c.JSON(http.StatusOK, gin.H{
		"user":    profile(session),
		"message": success(c, i18n.MsgProfileUpdated),
	})
}
