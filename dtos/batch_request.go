package dtos

import (
	"strings"

	"github.com/google/uuid"
)

// Message keys for validation failures. They double as i18n catalog keys.
const (
	MsgBatchNameRequired     = "validation.batch_name_required"
	MsgBatchItemsRequired    = "validation.batch_items_required"
	MsgBatchProductRequired  = "validation.batch_product_required"
	MsgBatchQuantityPositive = "validation.batch_quantity_positive"
	MsgBrandNameRequired     = "validation.brand_name_required"
	MsgProductFieldsRequired = "validation.product_fields_required"
	MsgUsernameRequired      = "validation.username_required"
	MsgPasswordRequired      = "validation.password_required"
	MsgRoleRequired          = "validation.role_required"
	MsgRoleInvalid           = "validation.role_invalid"
	MsgImageInvalid          = "validation.image_invalid"
	MsgImageTooLarge         = "validation.image_too_large"
	MsgItemNotFound          = "validation.item_not_found"
	MsgStepIncomplete        = "validation.step_incomplete"
)

// ValidationError is a client-side validation failure. Requests that fail
// validation never reach the backend.
type ValidationError struct {
	Field string `json:"field"`
	Key   string `json:"key"`
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Key
}

func invalid(field, key string) *ValidationError {
	return &ValidationError{Field: field, Key: key}
}

// BatchItem is one line of the wizard's item list.
type BatchItem struct {
	ID        uuid.UUID `json:"id"`
	ProductID int       `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Product   *Product  `json:"product,omitempty"`
}

// Valid reports whether the line can be submitted.
func (i BatchItem) Valid() bool {
	return i.ProductID > 0 && i.Quantity > 0
}

// BatchDetail is the wire form of a BatchItem.
type BatchDetail struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

// BatchRequest is the body of POST /api/batch-generate.
type BatchRequest struct {
	BatchName   string        `json:"batch_name"`
	Description string        `json:"description"`
	Details     []BatchDetail `json:"details"`
}

// Validate applies the wizard's gating rules.
func (r BatchRequest) Validate() error {
	if strings.TrimSpace(r.BatchName) == "" {
		return invalid("batch_name", MsgBatchNameRequired)
	}
	if len(r.Details) == 0 {
		return invalid("details", MsgBatchItemsRequired)
	}
	for _, d := range r.Details {
		if d.ProductID <= 0 {
			return invalid("product_id", MsgBatchProductRequired)
		}
		if d.Quantity <= 0 {
			return invalid("quantity", MsgBatchQuantityPositive)
		}
	}
	return nil
}

// TotalCodes is the number of QR codes the request will generate.
func (r BatchRequest) TotalCodes() int {
	total := 0
	for _, d := range r.Details {
		total += d.Quantity
	}
	return total
}
