package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCommitSHA(t *testing.T) {
	tests := []struct {
		name string
		sha  string
		want bool
	}{
		{"full hex sha", strings.Repeat("a", 40), true},
		{"mixed digits and letters", "0123456789abcdef0123456789abcdef01234567", true},
		{"too short", strings.Repeat("a", 39), false},
		{"too long", strings.Repeat("a", 41), false},
		{"uppercase rejected", strings.Repeat("A", 40), false},
		{"non-hex character", strings.Repeat("a", 39) + "g", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCommitSHA(tt.sha))
		})
	}
}
