package dtos

import (
	"fmt"
	"io"
	"strings"
)

// Roles accepted by the backend's user endpoints.
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleUser       = "user"
)

// ValidRole reports whether role is one the backend knows.
func ValidRole(role string) bool {
	switch role {
	case RoleSuperAdmin, RoleAdmin, RoleUser:
		return true
	}
	return false
}

type Brand struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

type BrandInput struct {
	Name string `json:"name"`
}

func (in BrandInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return invalid("name", MsgBrandNameRequired)
	}
	return nil
}

type ProductAttributes struct {
	Flavor   string `json:"flavor,omitempty"`
	Mg       string `json:"mg,omitempty"`
	CodeType string `json:"code_type,omitempty"`
}

type Product struct {
	ID         int               `json:"id"`
	BrandID    int               `json:"brand_id"`
	ModelName  string            `json:"model_name"`
	Category   string            `json:"category"`
	ImageURL   string            `json:"image_url"`
	Attributes ProductAttributes `json:"attributes"`
	CreatedAt  string            `json:"createdAt,omitempty"`
	UpdatedAt  string            `json:"updatedAt,omitempty"`
	Brand      *Brand            `json:"Brand,omitempty"`
}

// Label is the text shown for the product in the item selector.
// brands resolves the brand name when the product carries no nested Brand.
func (p Product) Label(brands map[int]string) string {
	name := ""
	if p.Brand != nil {
		name = p.Brand.Name
	}
	if name == "" {
		name = brands[p.BrandID]
	}
	if name == "" {
		name = "Unknown brand"
	}
	return fmt.Sprintf("%s - (%s - %sMG - %s)", name,
		orNA(p.Attributes.Flavor), orNA(p.Attributes.Mg), orNA(p.Attributes.CodeType))
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// ProductPage is one page of GET /api/v1/admin/products.
type ProductPage struct {
	Products    []Product `json:"products"`
	TotalPages  int       `json:"totalPages"`
	TotalItems  int       `json:"totalItems"`
	CurrentPage int       `json:"currentPage"`
}

// Upload is a file forwarded to the backend as a multipart part.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ProductInput is the multipart form accepted by the product endpoints.
type ProductInput struct {
	BrandID   int     `form:"brand_id"`
	ModelName string  `form:"model_name"`
	Category  string  `form:"category"`
	Flavor    string  `form:"attributes[flavor]"`
	Mg        string  `form:"attributes[mg]"`
	Image     *Upload `form:"-"`
}

func (in ProductInput) Validate() error {
	if in.BrandID <= 0 || strings.TrimSpace(in.ModelName) == "" || strings.TrimSpace(in.Category) == "" {
		return invalid("product", MsgProductFieldsRequired)
	}
	return nil
}

type User struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	BrandID   *int   `json:"brand_id,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// UserInput is the body of the user create/update endpoints. Password is
// required on create and optional on update.
type UserInput struct {
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
	Role     string `json:"role"`
	BrandID  *int   `json:"brand_id,omitempty"`
}

func (in UserInput) Validate(creating bool) error {
	if strings.TrimSpace(in.Username) == "" {
		return invalid("username", MsgUsernameRequired)
	}
	if creating && in.Password == "" {
		return invalid("password", MsgPasswordRequired)
	}
	if in.Role == "" {
		return invalid("role", MsgRoleRequired)
	}
	if !ValidRole(in.Role) {
		return invalid("role", MsgRoleInvalid)
	}
	return nil
}

// FilterBrands keeps brands whose name contains q, case-insensitively.
func FilterBrands(brands []Brand, q string) []Brand {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return brands
	}
	out := make([]Brand, 0, len(brands))
	for _, b := range brands {
		if strings.Contains(strings.ToLower(b.Name), q) {
			out = append(out, b)
		}
	}
	return out
}

// FilterProducts matches q against model name, category, brand name and
// attribute values.
func FilterProducts(products []Product, q string) []Product {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return products
	}
	out := make([]Product, 0, len(products))
	for _, p := range products {
		fields := []string{p.ModelName, p.Category, p.Attributes.Flavor, p.Attributes.Mg, p.Attributes.CodeType}
		if p.Brand != nil {
			fields = append(fields, p.Brand.Name)
		}
		for _, f := range fields {
			if strings.Contains(strings.ToLower(f), q) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// FilterUsers matches q against username and role.
func FilterUsers(users []User, q string) []User {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return users
	}
	out := make([]User, 0, len(users))
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Username), q) || strings.Contains(strings.ToLower(u.Role), q) {
			out = append(out, u)
		}
	}
	return out
}

// LoginResult is the backend's response to a successful sign-in.
type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
