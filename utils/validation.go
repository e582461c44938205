package utils

import (
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"qrhub-admin/dtos"

	"github.com/go-playground/validator/v10"
)

// AllowedImageContentTypes is the set of allowed content types for product images.
var AllowedImageContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// MaxUploadSize is the maximum allowed file size for uploads (5MB).
const MaxUploadSize = 5 << 20 // 5MB

// ValidateFileUpload checks the image's content type and size before it is
// forwarded to the backend.
func ValidateFileUpload(fh *multipart.FileHeader) error {
	if fh.Size > MaxUploadSize {
		return &dtos.ValidationError{Field: "image", Key: dtos.MsgImageTooLarge}
	}

	contentType := fh.Header.Get("Content-Type")
	if !AllowedImageContentTypes[contentType] {
		return &dtos.ValidationError{Field: "image", Key: dtos.MsgImageInvalid}
	}

	return nil
}

// SanitizeValidationError takes a binding error and returns a user-friendly message
// without leaking internal Go struct names.
func SanitizeValidationError(err error) string {
	if err == nil {
		return ""
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "Invalid request body"
	}

	var messages []string
	for _, fe := range validationErrors {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", field))
		case "min":
			messages = append(messages, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", ")))
		case "gt":
			messages = append(messages, fmt.Sprintf("%s must be greater than %s", field, fe.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", field))
		}
	}

	if len(messages) == 0 {
		return "Invalid request body"
	}

	return strings.Join(messages, "; ")
}
