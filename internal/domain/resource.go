package domain

import (
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/zeebo/blake3"
)

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// ResourceKey identifies a shared mutable resource, e.g. one dependency checkout
type ResourceKey struct {
	Revision string
	Source   string
}

func (k ResourceKey) String() string {
	if k.Revision == "" {
		return k.Source
	}
	return k.Source + "@" + k.Revision
}

// LockName returns a stable, filesystem-safe name for the key.
// The hash suffix keeps keys distinct after sanitizing.
func (k ResourceKey) LockName() string {
	sum := blake3.Sum256([]byte(k.String()))
	return SanitizeName(k.String(), 48) + "-" + hex.EncodeToString(sum[:6])
}

// SanitizeName replaces anything outside [a-zA-Z0-9._-] with '_' and
// truncates to max characters (max <= 0 means no limit).
func SanitizeName(s string, max int) string {
	for _, prefix := range []string{"https://", "http://", "ssh://", "git://", "file://"} {
		s = strings.TrimPrefix(s, prefix)
	}
	s = unsafeNameChars.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_.")
	if max > 0 && len(s) > max {
		s = s[:max]
	}
	if s == "" {
		s = "_"
	}
	return s
}

// InvocationID identifies one binary invocation within a suite run
type InvocationID struct {
	Script string
	Step   int
}

func (id InvocationID) String() string {
	return fmt.Sprintf("%s#%d", id.Script, id.Step)
}

// Slug is a directory name unique to the invocation
func (id InvocationID) Slug() string {
	sum := blake3.Sum256([]byte(id.String()))
	return fmt.Sprintf("%s-step%03d-%s", SanitizeName(id.Script, 40), id.Step, hex.EncodeToString(sum[:4]))
}

// CoverageRecord is the coverage artifact of one invocation
type CoverageRecord struct {
	Dir        string
	Invocation InvocationID
}
