package domain

import (
	"errors"
)

var (
	MesaageUserNotAllowed       = "user not allowed"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedGetToken       = "failed to get token"
	MessageFailedTokenInvalid   = "failed to token invalid"

	ErrUnauthenticated = errors.New("authentication credentials were not provided")
	ErrTokenInvalid    = errors.New("token invalid")
	ErrTokenExpired    = errors.New("token expired")
	ErrInvalidImage    = errors.New("image must be a base64 encoded data URI")
)

// Identity is the caller as resolved by the auth middleware. The zero value is
// an anonymous caller.
type Identity struct {
	UserID        uint
	Authenticated bool
}

func Anonymous() Identity {
	return Identity{}
}

func Authenticated(userID uint) Identity {
	return Identity{UserID: userID, Authenticated: true}
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

// NewPagination reports zero pages for a non-positive limit.
func NewPagination(page, limit int, total int64) Pagination {
	p := Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
	}
	if limit > 0 {
		p.TotalPages = (total + int64(limit) - 1) / int64(limit)
	}
	return p
}
