package harness

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// TestDependencyRepo is a local git repository holding a Move package,
// usable as a git dependency source.
type TestDependencyRepo struct {
	Path string
	repo *gogit.Repository
	tb   testing.TB
}

// NewTestDependencyRepo creates a repository on branch main with an initial
// commit containing Move.toml for package name.
func NewTestDependencyRepo(tb testing.TB, name string) *TestDependencyRepo {
	tb.Helper()

	dir := filepath.Join(tb.TempDir(), name)
	repo, err := gogit.PlainInitWithOptions(dir, &gogit.PlainInitOptions{
		InitOptions: gogit.InitOptions{DefaultBranch: plumbing.NewBranchReferenceName("main")},
	})
	if err != nil {
		tb.Fatalf("Failed to init repository: %v", err)
	}

	r := &TestDependencyRepo{Path: dir, repo: repo, tb: tb}
	r.Commit("Move.toml", "[package]\nname = \""+name+"\"\nversion = \"0.1.0\"\n")
	return r
}

// Commit writes a file and commits it, returning the commit hash.
func (r *TestDependencyRepo) Commit(rel, content string) string {
	r.tb.Helper()

	path := filepath.Join(r.Path, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		r.tb.Fatalf("Failed to create directory for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		r.tb.Fatalf("Failed to write %s: %v", rel, err)
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		r.tb.Fatalf("Failed to open worktree: %v", err)
	}
	if _, err := wt.Add(rel); err != nil {
		r.tb.Fatalf("Failed to stage %s: %v", rel, err)
	}
	hash, err := wt.Commit("update "+rel, &gogit.CommitOptions{
		Author: &object.Signature{Name: "Test User", Email: "test@example.com", When: time.Unix(1700000000, 0)},
	})
	if err != nil {
		r.tb.Fatalf("Failed to commit %s: %v", rel, err)
	}
	return hash.String()
}

// Tag creates a lightweight tag at HEAD.
func (r *TestDependencyRepo) Tag(name string) {
	r.tb.Helper()

	head, err := r.repo.Head()
	if err != nil {
		r.tb.Fatalf("Failed to resolve HEAD: %v", err)
	}
	if _, err := r.repo.CreateTag(name, head.Hash(), nil); err != nil {
		r.tb.Fatalf("Failed to create tag %s: %v", name, err)
	}
}
