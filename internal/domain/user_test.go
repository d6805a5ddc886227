package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitials(t *testing.T) {
	tests := []struct {
		name string
		user User
		want string
	}{
		{"ascii name", User{Name: "Pat Mason"}, "PA"},
		{"multibyte name", User{Name: "Åsa Örn"}, "ÅS"},
		{"single rune", User{Name: "Ø"}, "Ø"},
		{"falls back to email", User{Email: "rep@example.com"}, "RE"},
		{"whitespace name falls back to email", User{Name: "  ", Email: "rep@example.com"}, "RE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.Initials())
		})
	}
}
