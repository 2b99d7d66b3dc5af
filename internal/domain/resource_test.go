package domain

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResourceKeyString(t *testing.T) {
	assert.Equal(t, "https://github.com/a/b.git@main", ResourceKey{Source: "https://github.com/a/b.git", Revision: "main"}.String())
	assert.Equal(t, "/tmp/repo", ResourceKey{Source: "/tmp/repo"}.String())
}

func TestLockName(t *testing.T) {
	safe := regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

	tests := []struct {
		name string
		key  ResourceKey
	}{
		{"https url", ResourceKey{Source: "https://github.com/move-language/move.git", Revision: "main"}},
		{"local path", ResourceKey{Source: "/home/user/deps/framework", Revision: "v1.0.0"}},
		{"long source", ResourceKey{Source: "https://example.com/" + strings.Repeat("nested/", 30) + "repo.git", Revision: "a1b2c3"}},
		{"only symbols", ResourceKey{Source: "///", Revision: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name := tt.key.LockName()
			assert.Regexp(t, safe, name)
			assert.LessOrEqual(t, len(name), 48+1+12)
			assert.Equal(t, name, tt.key.LockName(), "stable")
		})
	}
}

func TestLockNameDistinguishesKeysThatSanitizeAlike(t *testing.T) {
	a := ResourceKey{Source: "https://example.com/a/b", Revision: "main"}
	b := ResourceKey{Source: "https://example.com/a_b", Revision: "main"}

	assert.Equal(t, SanitizeName(a.String(), 0), SanitizeName(b.String(), 0))
	assert.NotEqual(t, a.LockName(), b.LockName())
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"https://github.com/a/b.git", 0, "github.com_a_b.git"},
		{"nested/deep/exit", 0, "nested_deep_exit"},
		{"..hidden..", 0, "hidden"},
		{"", 0, "_"},
		{"abcdef", 3, "abc"},
		{"file:///tmp/x y", 0, "tmp_x_y"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeName(tt.in, tt.max), "SanitizeName(%q, %d)", tt.in, tt.max)
	}
}

func TestInvocationSlug(t *testing.T) {
	a := InvocationID{Script: "nested/deep/exit", Step: 2}
	b := InvocationID{Script: "nested_deep/exit", Step: 2}

	assert.Equal(t, "nested/deep/exit#2", a.String())
	assert.True(t, strings.HasPrefix(a.Slug(), "nested_deep_exit-step002-"))
	assert.NotEqual(t, a.Slug(), b.Slug())
	assert.NotEqual(t, a.Slug(), InvocationID{Script: a.Script, Step: 3}.Slug())
}
