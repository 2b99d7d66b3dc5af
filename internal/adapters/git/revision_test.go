package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRevisionValid(t *testing.T) {
	valid := []string{
		"main",
		"v1.2.3",
		"feature/move-2024",
		"release_1",
		"a1b2c3d",
		"0123456789abcdef0123456789abcdef01234567",
	}

	for _, rev := range valid {
		t.Run(rev, func(t *testing.T) {
			assert.NoError(t, validateRevision(rev))
		})
	}
}

func TestValidateRevisionInvalid(t *testing.T) {
	tests := []struct {
		rev     string
		wantMsg string
	}{
		{"", "empty"},
		{"-main", "start with '-'"},
		{".hidden", "start with '.'"},
		{"/abs", "start with '/'"},
		{"branch.lock", ".lock"},
		{"trailing.", "end with '.'"},
		{"trailing/", "end with '/'"},
		{"a..b", "'..'"},
		{"a//b", "'//'"},
		{"tab\there", "control characters"},
		{"main~1", "invalid characters"},
		{"HEAD^", "invalid characters"},
		{"a b", "invalid characters"},
		{"$(rm)", "invalid characters"},
	}

	for _, tt := range tests {
		t.Run(tt.rev, func(t *testing.T) {
			err := validateRevision(tt.rev)
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestIsCommitHash(t *testing.T) {
	assert.True(t, isCommitHash("0123456789abcdef0123456789abcdef01234567"))
	assert.False(t, isCommitHash("0123456"))
	assert.False(t, isCommitHash("main"))
	assert.False(t, isCommitHash("0123456789ABCDEF0123456789ABCDEF01234567"))
}
