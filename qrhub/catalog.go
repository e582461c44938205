package qrhub

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"

	"qrhub-admin/dtos"
)

const (
	brandsPath   = "/api/v1/admin/brands"
	productsPath = "/api/v1/admin/products"
	usersPath    = "/api/v1/admin/users"
	loginPath    = "/api/v1/auth/login"
)

func itemPath(base string, id int) string {
	return base + "/" + strconv.Itoa(id)
}

// Login exchanges credentials for a backend bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (*dtos.LoginResult, error) {
	in := map[string]string{"username": username, "password": password}
	var out dtos.LoginResult
	if err := c.doJSON(ctx, http.MethodPost, loginPath, nil, "", in, &out); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, fmt.Errorf("login response carried no token")
	}
	return &out, nil
}

func (c *Client) ListBrands(ctx context.Context, token string) ([]dtos.Brand, error) {
	var out []dtos.Brand
	if err := c.doJSON(ctx, http.MethodGet, brandsPath, nil, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateBrand(ctx context.Context, token string, in dtos.BrandInput) (*dtos.Brand, error) {
	var out dtos.Brand
	if err := c.doJSON(ctx, http.MethodPost, brandsPath, nil, token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateBrand(ctx context.Context, token string, id int, in dtos.BrandInput) (*dtos.Brand, error) {
	var out dtos.Brand
	if err := c.doJSON(ctx, http.MethodPut, itemPath(brandsPath, id), nil, token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteBrand(ctx context.Context, token string, id int) error {
	return c.doJSON(ctx, http.MethodDelete, itemPath(brandsPath, id), nil, token, nil, nil)
}

func (c *Client) ListProducts(ctx context.Context, token string, page, limit int) (*dtos.ProductPage, error) {
	var out dtos.ProductPage
	if err := c.doJSON(ctx, http.MethodGet, productsPath, pageQuery(page, limit), token, nil, &out); err != nil {
		return nil, err
	}
	if out.Products == nil {
		out.Products = []dtos.Product{}
	}
	return &out, nil
}

func (c *Client) CreateProduct(ctx context.Context, token string, in dtos.ProductInput) (*dtos.Product, error) {
	return c.sendProduct(ctx, http.MethodPost, productsPath, token, in)
}

func (c *Client) UpdateProduct(ctx context.Context, token string, id int, in dtos.ProductInput) (*dtos.Product, error) {
	return c.sendProduct(ctx, http.MethodPut, itemPath(productsPath, id), token, in)
}

func (c *Client) DeleteProduct(ctx context.Context, token string, id int) error {
	return c.doJSON(ctx, http.MethodDelete, itemPath(productsPath, id), nil, token, nil, nil)
}

func (c *Client) sendProduct(ctx context.Context, method, path, token string, in dtos.ProductInput) (*dtos.Product, error) {
	body, contentType, err := productForm(in)
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, method, path, nil, body, token)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	res, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var out dtos.Product
	if err := decodeBody(res.Body, &out); err != nil {
		return nil, fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return &out, nil
}

// productForm builds the multipart body the product endpoints expect.
func productForm(in dtos.ProductInput) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := []struct{ name, value string }{
		{"brand_id", strconv.Itoa(in.BrandID)},
		{"model_name", in.ModelName},
		{"category", in.Category},
		{"attributes[flavor]", in.Flavor},
		{"attributes[mg]", in.Mg},
	}
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", err
		}
	}

	if in.Image != nil && in.Image.Body != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, in.Image.Filename))
		ct := in.Image.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, in.Image.Body); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func (c *Client) ListUsers(ctx context.Context, token string) ([]dtos.User, error) {
	var out []dtos.User
	if err := c.doJSON(ctx, http.MethodGet, usersPath, nil, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateUser(ctx context.Context, token string, in dtos.UserInput) (*dtos.User, error) {
	var out dtos.User
	if err := c.doJSON(ctx, http.MethodPost, usersPath, nil, token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUser sends the password only when it is set.
func (c *Client) UpdateUser(ctx context.Context, token string, id int, in dtos.UserInput) (*dtos.User, error) {
	var out dtos.User
	if err := c.doJSON(ctx, http.MethodPut, itemPath(usersPath, id), nil, token, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteUser(ctx context.Context, token string, id int) error {
	return c.doJSON(ctx, http.MethodDelete, itemPath(usersPath, id), nil, token, nil, nil)
}
