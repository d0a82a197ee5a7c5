// internal/services/upload.go
package services

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dravik/licensing-console/internal/api"
)

type UploadOptions struct {
	MaxSize      int64 // in bytes
	AllowedTypes []string
	ImageOnly    bool
}

func GetDefaultUploadOptions(category string) UploadOptions {
	switch category {
	case "image":
		return UploadOptions{
			MaxSize:      10 * 1024 * 1024, // 10MB
			AllowedTypes: []string{".jpg", ".jpeg", ".png", ".gif"},
			ImageOnly:    true,
		}
	case "media":
		return UploadOptions{
			MaxSize:      50 * 1024 * 1024, // 50MB
			AllowedTypes: []string{".mp3", ".wav", ".ogg", ".m4a", ".mp4", ".mov", ".webm"},
		}
	default:
		return UploadOptions{
			MaxSize:      5 * 1024 * 1024, // 5MB
			AllowedTypes: []string{".jpg", ".jpeg", ".png", ".pdf"},
		}
	}
}

// ReadUpload checks an uploaded file against options and reads it into an
// attachment for the registration payload.
func ReadUpload(header *multipart.FileHeader, options UploadOptions) (*api.File, error) {
	// Validate file size
	if options.MaxSize > 0 && header.Size > options.MaxSize {
		return nil, fmt.Errorf("file size %d bytes exceeds maximum allowed size %d bytes", header.Size, options.MaxSize)
	}

	// Validate file type
	if len(options.AllowedTypes) > 0 {
		fileExt := strings.ToLower(filepath.Ext(header.Filename))
		allowed := false
		for _, allowedType := range options.AllowedTypes {
			if fileExt == allowedType {
				allowed = true
				break
			}
		}
		if !allowed {
			return nil, fmt.Errorf("file type %s is not allowed", fileExt)
		}
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	if options.ImageOnly && !isValidImageType(data) {
		return nil, fmt.Errorf("invalid image file")
	}

	return &api.File{
		Name:        filepath.Base(header.Filename),
		ContentType: contentTypeOf(header.Filename, header.Header.Get("Content-Type"), data),
		Data:        data,
	}, nil
}

func contentTypeOf(name, declared string, data []byte) string {
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); byExt != "" {
		return byExt
	}
	return http.DetectContentType(data)
}

func isValidImageType(buffer []byte) bool {
	// Check for JPEG
	if len(buffer) >= 3 && buffer[0] == 0xFF && buffer[1] == 0xD8 && buffer[2] == 0xFF {
		return true
	}

	// Check for PNG
	if len(buffer) >= 8 && buffer[0] == 0x89 && buffer[1] == 0x50 && buffer[2] == 0x4E && buffer[3] == 0x47 {
		return true
	}

	// Check for GIF
	if len(buffer) >= 6 && (string(buffer[0:6]) == "GIF87a" || string(buffer[0:6]) == "GIF89a") {
		return true
	}

	return false
}
