package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"steak", "steak", 0},
		{"steak", "steek", 1},
		{"steak", "steaks", 1},
		{"steak", "stak", 1},
		{"kitten", "sitting", 3},
		{"biltong", "bilton", 1},
		{"braai", "braäi", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Levenshtein(tt.a, tt.b))
			assert.Equal(t, tt.want, Levenshtein(tt.b, tt.a))
		})
	}
}
