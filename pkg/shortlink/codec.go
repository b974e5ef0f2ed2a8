// Package shortlink maps recipe ids to compact tokens over a 64 symbol
// alphabet and back.
package shortlink

import (
	"fmt"
	"math"

	"foodgram/domain"
)

const Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-_"

const base = uint64(len(Alphabet))

var index = func() [256]int8 {
	var idx [256]int8
	for i := range idx {
		idx[i] = -1
	}
	for i := 0; i < len(Alphabet); i++ {
		idx[Alphabet[i]] = int8(i)
	}
	return idx
}()

// Encode returns the token of a positive id. Zero has no token.
func Encode(id uint64) (string, error) {
	if id == 0 {
		return "", fmt.Errorf("encode %d: %w", id, domain.ErrInvalidToken)
	}

	var buf [11]byte
	i := len(buf)
	for id > 0 {
		i--
		buf[i] = Alphabet[id%base]
		id /= base
	}
	return string(buf[i:]), nil
}

// Decode is the inverse of Encode. Every character is checked against the
// alphabet before any arithmetic; tokens with a leading zero symbol, tokens
// decoding to zero and tokens overflowing uint64 are rejected so that each id
// has exactly one token.
func Decode(token string) (uint64, error) {
	if token == "" {
		return 0, domain.NewFieldError("token", token, domain.ErrInvalidToken)
	}
	if !Valid(token) {
		return 0, domain.NewFieldError("token", token, domain.ErrInvalidToken)
	}
	if token[0] == Alphabet[0] {
		return 0, domain.NewFieldError("token", token, domain.ErrInvalidToken)
	}

	var id uint64
	for i := 0; i < len(token); i++ {
		digit := uint64(index[token[i]])
		if id > (math.MaxUint64-digit)/base {
			return 0, domain.NewFieldError("token", token, domain.ErrInvalidToken)
		}
		id = id*base + digit
	}
	return id, nil
}

// Valid reports whether every character of token belongs to the alphabet.
func Valid(token string) bool {
	for i := 0; i < len(token); i++ {
		if index[token[i]] < 0 {
			return false
		}
	}
	return true
}
