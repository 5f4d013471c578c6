package utils

import (
	"crypto/sha256"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var allowedMimeTypes = []string{
	"image/jpeg",
	"image/jpg",
	"image/png",
	"image/gif",
	"image/webp",
	"image/bmp",
}

var allowedExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".webp"}

// DetectImageType sniffs the media type from the first bytes of the buffer.
func DetectImageType(data []byte) string {
	return http.DetectContentType(data)
}

// IsAllowedImageType checks a sniffed content type against the image allow-list.
func IsAllowedImageType(contentType string) bool {
	ct := strings.ToLower(contentType)
	for _, allowed := range allowedMimeTypes {
		if strings.Contains(ct, allowed) {
			return true
		}
	}
	return false
}

// IsAllowedExtension checks the declared filename extension against the allow-list.
func IsAllowedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range allowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// AllowedExtensions returns the extension allow-list for error messages.
func AllowedExtensions() []string {
	return allowedExtensions
}

// ImageHash returns the hex sha256 of the raw image bytes. Used as the
// cache key and for duplicate-report detection.
func ImageHash(data []byte) string {
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%x", sum)
}

// GenerateFilename generates a unique filename for an archived leaf image.
func GenerateFilename(reportID, format string) string {
	timestamp := time.Now().Unix()
	if format == "" {
		format = "jpeg"
	}
	return fmt.Sprintf("leaf_%s_%d.%s", reportID, timestamp, format)
}

// GenerateStorageKey builds the object key under which an image is archived.
func GenerateStorageKey(filename string) string {
	ext := filepath.Ext(filename)
	name := strings.TrimSuffix(filename, ext)
	timestamp := time.Now().Unix()
	uid := uuid.New().String()[:8]

	return fmt.Sprintf("uploads/%s_%d_%s%s", name, timestamp, uid, ext)
}
