package git

import (
	"path/filepath"
	"regexp"
	"strings"
)

var gitURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^https?://`),            // https:// or http://
	regexp.MustCompile(`^git@`),                 // git@github.com:owner/repo
	regexp.MustCompile(`^ssh://`),               // ssh://git@github.com/owner/repo
	regexp.MustCompile(`^git://`),               // git://github.com/owner/repo
	regexp.MustCompile(`^file://`),              // file:///srv/repo
	regexp.MustCompile(`^[a-zA-Z0-9.-]+@[^/]*:`), // generic user@host:path format
}

// isGitURL checks if source is a remote git URL rather than a local path
func isGitURL(source string) bool {
	if source == "" {
		return false
	}
	for _, pattern := range gitURLPatterns {
		if pattern.MatchString(source) {
			return true
		}
	}
	return false
}

// canonicalSource normalizes a source so that spellings of the same
// repository share one cache entry and one lock. Remote URLs collapse to
// host/owner/repo with only the host lowercased; local paths become
// absolute and keep their case.
func canonicalSource(source string) string {
	if !isGitURL(source) {
		abs, err := filepath.Abs(source)
		if err != nil {
			return filepath.Clean(source)
		}
		return abs
	}

	url := strings.TrimSuffix(source, "/")
	url = strings.TrimSuffix(url, ".git")

	if rest, ok := strings.CutPrefix(url, "file://"); ok {
		return filepath.Clean(rest)
	}
	for _, prefix := range []string{"https://", "http://", "git://"} {
		url = strings.TrimPrefix(url, prefix)
	}
	if rest, ok := strings.CutPrefix(url, "ssh://"); ok {
		url = rest
		// Remove user@ part
		if at := strings.Index(url, "@"); at >= 0 && at < strings.Index(url+"/", "/") {
			url = url[at+1:]
		}
	}
	// git@host:path
	if at := strings.Index(url, "@"); at >= 0 && strings.Contains(url[at:], ":") {
		url = strings.Replace(url[at+1:], ":", "/", 1)
	}

	host, path, ok := strings.Cut(url, "/")
	if !ok {
		return strings.ToLower(host)
	}
	return strings.ToLower(host) + "/" + path
}
