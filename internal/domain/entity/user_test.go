package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "john@example.com", want: "john@example.com"},
		{in: "  John@Example.COM ", want: "john@example.com"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeEmail(tt.in), tt.in)
	}
}
