package git

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// validRevisionChars matches commit hashes, branch and tag names
var validRevisionChars = regexp.MustCompile(`^[a-zA-Z0-9._/-]+$`)

// validateRevision checks a manifest rev before it reaches the fetcher.
// Rules follow git-check-ref-format, minus anything that needs quoting.
func validateRevision(rev string) error {
	if rev == "" {
		return fmt.Errorf("revision cannot be empty")
	}

	if strings.HasPrefix(rev, "-") {
		return fmt.Errorf("revision cannot start with '-'")
	}
	if strings.HasPrefix(rev, ".") || strings.HasPrefix(rev, "/") {
		return fmt.Errorf("revision cannot start with '%c'", rev[0])
	}
	if strings.HasSuffix(rev, ".lock") {
		return fmt.Errorf("revision cannot end with '.lock'")
	}
	if strings.HasSuffix(rev, ".") || strings.HasSuffix(rev, "/") {
		return fmt.Errorf("revision cannot end with '%c'", rev[len(rev)-1])
	}

	if strings.Contains(rev, "..") {
		return fmt.Errorf("revision cannot contain '..'")
	}
	if strings.Contains(rev, "//") {
		return fmt.Errorf("revision cannot contain '//'")
	}

	for _, r := range rev {
		if unicode.IsControl(r) {
			return fmt.Errorf("revision cannot contain control characters")
		}
	}

	if !validRevisionChars.MatchString(rev) {
		return fmt.Errorf("revision %q contains invalid characters (only alphanumeric, '.', '_', '-', '/' allowed)", rev)
	}

	return nil
}

var commitHash = regexp.MustCompile(`^[0-9a-f]{40}$`)

// isCommitHash reports whether rev is a full hex object id
func isCommitHash(rev string) bool {
	return commitHash.MatchString(rev)
}
