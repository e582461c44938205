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

type BrandHandler struct {
	API *qrhub.Client
}

func (h *BrandHandler) list(ctx context.Context, c *gin.Context) ([]dtos.Brand, error) {
	brands, err := h.API.ListBrands(ctx, middleware.BackendToken(c))
	if err != nil {
		return nil, err
	}
	return dtos.FilterBrands(brands, c.Query("q")), nil
}

func (h *BrandHandler) GetBrands(c *gin.Context) {
	brands, err := h.list(c.Request.Context(), c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"brands": brands})
}

func (h *BrandHandler) CreateBrand(c *gin.Context) {
	var in dtos.BrandInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, i18n.MsgInvalidRequest)
		return
	}
	if err := in.Validate(); err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	brand, err := h.API.CreateBrand(ctx, middleware.BackendToken(c), in)
	if err != nil {
		respondError(c, err)
		return
	}

	brands, err := h.list(ctx, c)
	if err != nil {
		refetchFailed(c, "brands", err)
	}
	c.JSON(http.StatusCreated, gin.H{
		"brand":   brand,
		"brands":  brands,
		"message": success(c, i18n.MsgBrandCreated),
	})
}

func (h *BrandHandler) UpdateBrand(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var in dtos.BrandInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, i18n.MsgInvalidRequest)
		return
	}
	if err := in.Validate(); err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	brand, err := h.API.UpdateBrand(ctx, middleware.BackendToken(c), id, in)
	if err != nil {
		respondError(c, err)
		return
	}

	brands, err := h.list(ctx, c)
	if err != nil {
		refetchFailed(c, "brands", err)
	}
	c.JSON(http.StatusOK, gin.H{
		"brand":   brand,
		"brands":  brands,
		"message": success(c, i18n.MsgBrandUpdated),
	})
}

func (h *BrandHandler) DeleteBrand(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := h.API.DeleteBrand(ctx, middleware.BackendToken(c), id); err != nil {
		respondError(c, err)
		return
	}

	brands, err := h.list(ctx, c)
	if err != nil {
		refetchFailed(c, "brands", err)
	}
	c.JSON(http.StatusOK, gin.H{
		"brands":  brands,
		"message": success(c, i18n.MsgBrandDeleted),
	})
}
