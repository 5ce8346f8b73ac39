package validation

import (
	"fmt"
	"mime/multipart"
)

const MaxImageSize = 5 * 1024 * 1024 // 5MB

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// ValidateImage boyut ve content-type kontrolü
func ValidateImage(file *multipart.FileHeader) error {
	if file.Size > MaxImageSize {
		return fmt.Errorf("file size too large. Maximum size is %d bytes", MaxImageSize)
	}

	contentType := file.Header.Get("Content-Type")
	if !allowedImageTypes[contentType] {
		return fmt.Errorf("invalid file type. Allowed types are: jpeg, png")
	}

	return nil
}
