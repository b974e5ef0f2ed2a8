package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		total int64
		want  int64
	}{
		{"exact pages", 5, 10, 2},
		{"partial last page", 6, 13, 3},
		{"no rows", 6, 0, 0},
		{"zero limit", 0, 10, 0},
		{"negative limit", -1, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(1, tt.limit, tt.total)
			assert.Equal(t, tt.want, p.TotalPages)
			assert.Equal(t, tt.total, p.Total)
		})
	}
}
