package utils

import (
	"encoding/base64"
	"strings"

	"foodgram/domain"
)

type Image struct {
	Content     []byte
	ContentType string
	Extension   string
}

var imageExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// DecodeBase64Image parses a "data:image/<type>;base64,<payload>" URI.
func DecodeBase64Image(data string) (Image, error) {
	header, payload, ok := strings.Cut(data, ";base64,")
	if !ok || !strings.HasPrefix(header, "data:") {
		return Image{}, domain.ErrInvalidImage
	}

	contentType := strings.ToLower(strings.TrimPrefix(header, "data:"))
	ext, ok := imageExtensions[contentType]
	if !ok {
		return Image{}, domain.ErrInvalidImage
	}

	content, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(content) == 0 {
		return Image{}, domain.ErrInvalidImage
	}

	return Image{Content: content, ContentType: contentType, Extension: ext}, nil
}
