package handlers

import (
	"context"
	"net/http"

	"qrhub-admin/dtos"
	"qrhub-admin/i18n"
	"qrhub-admin/middleware"
	"qrhub-admin/qrhub"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	API *qrhub.Client
}

func (h *UserHandler) list(ctx context.Context, c *gin.Context) ([]dtos.User, error) {
	users, err := h.API.ListUsers(ctx, middleware.BackendToken(c))
	if err != nil {
		return nil, err
	}
	return dtos.FilterUsers(users, c.Query("q")), nil
}

func (h *UserHandler) GetUsers(c *gin.Context) {
	users, err := h.list(c.Request.Context(), c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var in dtos.UserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, i18n.MsgInvalidRequest)
		return
	}
	if err := in.Validate(true); err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	user, err := h.API.CreateUser(ctx, middleware.BackendToken(c), in)
	if err != nil {
		respondError(c, err)
		return
	}

	users, err := h.list(ctx, c)
	if err != nil {
		refetchFailed(c, "users", err)
	}
	c.JSON(http.StatusCreated, gin.H{
		"user":    user,
		"users":   users,
		"message": success(c, i18n.MsgUserCreated),
	})
}

// UpdateUser leaves the password unchanged when it is omitted.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var in dtos.UserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, i18n.MsgInvalidRequest)
		return
	}
	if err := in.Validate(false); err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	user, err := h.API.UpdateUser(ctx, middleware.BackendToken(c), id, in)
	if err != nil {
		respondError(c, err)
		return
	}

	users, err := h.list(ctx, c)
	if err != nil {
		refetchFailed(c, "users", err)
	}
	c.JSON(http.StatusOK, gin.H{
		"user":    user,
		"users":   users,
		"message": success(c, i18n.MsgUserUpdated),
	})
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := h.API.DeleteUser(ctx, middleware.BackendToken(c), id); err != nil {
		respondError(c, err)
		return
	}

	users, err := h.list(ctx, c)
	if err != nil {
		refetchFailed(c, "users", err)
	}
	c.JSON(http.StatusOK, gin.H{
		"users":   users,
		"message": success(c, i18n.MsgUserDeleted),
	})
}
