package handlers

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"qrhub-admin/dtos"
	"qrhub-admin/i18n"
	"qrhub-admin/middleware"
	"qrhub-admin/qrhub"
	"qrhub-admin/utils"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	API      *qrhub.Client
	PageSize int
}

type productList struct {
	Products   []dtos.Product `json:"products"`
	Pagination *dtos.PageInfo `json:"pagination"`
}

func (h *ProductHandler) limit(c *gin.Context) int {
	if n, err := strconv.Atoi(c.Query("limit")); err == nil && n > 0 && n <= 100 {
		return n
	}
	if h.PageSize > 0 {
		return h.PageSize
	}
	return dtos.DefaultPageSize
}

// page loads one page of products. The q filter applies to the loaded page
// only, as the backend has no search parameter.
func (h *ProductHandler) page(ctx context.Context, c *gin.Context) (*productList, error) {
	page, limit := queryPage(c), h.limit(c)
	res, err := h.API.ListProducts(ctx, middleware.BackendToken(c), page, limit)
	if err != nil {
		return nil, err
	}

	current := res.CurrentPage
	if current < 1 {
		current = page
	}
	products := res.Products
	if products == nil {
		products = []dtos.Product{}
	}
	info := dtos.NewPager(current, limit, res.TotalPages, res.TotalItems).Info()
	return &productList{
		Products:   dtos.FilterProducts(products, c.Query("q")),
		Pagination: &info,
	}, nil
}

// refetch reloads the current page after a write. A failed reload leaves
// the list empty; the write itself already succeeded.
func (h *ProductHandler) refetch(ctx context.Context, c *gin.Context) productList {
	list, err := h.page(ctx, c)
	if err != nil {
		refetchFailed(c, "products", err)
		return productList{}
	}
	return *list
}

func (h *ProductHandler) GetProducts(c *gin.Context) {
	list, err := h.page(c.Request.Context(), c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// bindProduct reads the multipart product form. The returned file, if any,
// must be closed by the caller.
func bindProduct(c *gin.Context) (dtos.ProductInput, multipart.File, error) {
	var in dtos.ProductInput
	if err := c.ShouldBind(&in); err != nil {
		return in, nil, &dtos.ValidationError{Field: "product", Key: dtos.MsgProductFieldsRequired}
	}
	if err := in.Validate(); err != nil {
		return in, nil, err
	}

	fileHeader, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return in, nil, nil
	}
	if err != nil {
		return in, nil, &dtos.ValidationError{Field: "image", Key: dtos.MsgImageInvalid}
	}
	if err := utils.ValidateFileUpload(fileHeader); err != nil {
		return in, nil, err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return in, nil, &dtos.ValidationError{Field: "image", Key: dtos.MsgImageInvalid}
	}
	in.Image = &dtos.Upload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Body:        file,
	}
	return in, file, nil
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	in, file, err := bindProduct(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if file != nil {
		defer file.Close()
	}

	ctx := c.Request.Context()
	product, err := h.API.CreateProduct(ctx, middleware.BackendToken(c), in)
	if err != nil {
		respondError(c, err)
		return
	}

	list := h.refetch(ctx, c)
	c.JSON(http.StatusCreated, gin.H{
		"product":    product,
		"products":   list.Products,
		"pagination": list.Pagination,
		"message":    success(c, i18n.MsgProductCreated),
	})
}

// UpdateProduct keeps the current image when no file is sent.
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	in, file, err := bindProduct(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if file != nil {
		defer file.Close()
	}

	ctx := c.Request.Context()
	product, err := h.API.UpdateProduct(ctx, middleware.BackendToken(c), id, in)
	if err != nil {
		respondError(c, err)
		return
	}

	list := h.refetch(ctx, c)
	c.JSON(http.StatusOK, gin.H{
		"product":    product,
		"products":   list.Products,
		"pagination": list.Pagination,
		"message":    success(c, i18n.MsgProductUpdated),
	})
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := h.API.DeleteProduct(ctx, middleware.BackendToken(c), id); err != nil {
		respondError(c, err)
		return
	}

	list := h.refetch(ctx, c)
	c.JSON(http.StatusOK, gin.H{
		"products":   list.Products,
		"pagination": list.Pagination,
		"message":    success(c, i18n.MsgProductDeleted),
	})
}
