package shoppinglist

import (
	"fmt"
	"strings"

	"foodgram/domain"
)

type Format string

const (
	FormatText Format = "txt"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatText, "text":
		return FormatText, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", domain.NewFieldError("format", s, domain.ErrInvalidValue)
	}
}

func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatJSON:
		return "application/json"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Filename follows the {username}_shopping_list.{ext} convention; callers
// without a username get the fixed "foodgram" prefix.
func Filename(username string, f Format) string {
	if username == "" {
		username = "foodgram"
	}
	return fmt.Sprintf("%s_shopping_list.%s", username, f)
}
