package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveTitle(t *testing.T) {
	long := strings.Repeat("anxiety ", 20) // well past the cap

	tests := []struct {
		name   string
		prompt string
		want   string
	}{
		{
			name:   "short prompt used as-is",
			prompt: "Client discussed work stress",
			want:   "Client discussed work stress",
		},
		{
			name:   "leading blank lines skipped",
			prompt: "\n\n  \nSecond try at exposure hierarchy\nmore detail",
			want:   "Second try at exposure hierarchy",
		},
		{
			name:   "long line truncated on word boundary",
			prompt: long,
			want:   strings.TrimSpace(long[:80]),
		},
		{
			name:   "empty prompt yields no title",
			prompt: "   \n\t\n",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := deriveTitle(tt.prompt)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len(got), maxDerivedTitleLen)
		})
	}
}
