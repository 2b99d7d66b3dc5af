package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"movecli/internal/domain"
	"movecli/internal/logging"
	"movecli/internal/ports"
)

// BuildInfoFileName is written under build/<package>/
const BuildInfoFileName = "BuildInfo.yaml"

// BuildService resolves a package's dependencies and records them
type BuildService struct {
	cache    ports.DependencyCache
	manifest ports.ManifestLoader
}

// NewBuildService creates a new BuildService
func NewBuildService(manifest ports.ManifestLoader, cache ports.DependencyCache) *BuildService {
	return &BuildService{
		cache:    cache,
		manifest: manifest,
	}
}

// Build checks out every git dependency of the package in pkgDir through the
// shared cache and writes build/<package>/BuildInfo.yaml. It returns the
// path of the written file.
func (s *BuildService) Build(ctx context.Context, pkgDir string) (string, error) {
	pkgDir, err := filepath.Abs(pkgDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve package directory: %w", err)
	}

	m, err := s.manifest.Load(pkgDir)
	if err != nil {
		return "", err
	}

	logging.Logger.Info("Building package", "package", m.Package.Name, "dir", pkgDir, "dependencies", len(m.Dependencies))

	names := make([]string, 0, len(m.Dependencies))
	for name := range m.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	info := domain.BuildInfo{
		Dependencies: make([]domain.ResolvedDependency, 0, len(names)),
		Package:      m.Package.Name,
	}
	for _, name := range names {
		resolved, err := s.resolve(ctx, pkgDir, name, m.Dependencies[name])
		if err != nil {
			return "", err
		}
		info.Dependencies = append(info.Dependencies, resolved)
	}

	out := filepath.Join(pkgDir, "build", m.Package.Name, BuildInfoFileName)
	if err := writeBuildInfo(out, info); err != nil {
		return "", err
	}

	logging.Logger.Info("Package built", "package", m.Package.Name, "build_info", out)
	return out, nil
}

func (s *BuildService) resolve(ctx context.Context, pkgDir, name string, dep domain.Dependency) (domain.ResolvedDependency, error) {
	if !dep.IsGit() {
		return domain.ResolvedDependency{Name: name, Path: dep.Local, Source: dep.Local}, nil
	}

	if isRelativePath(dep.Git) {
		dep.Git = filepath.Join(pkgDir, dep.Git)
	}

	path, err := s.cache.Checkout(ctx, dep)
	if err != nil {
		logging.Logger.Error("Failed to check out dependency", "dependency", name, "source", dep.Git, "error", err)
		return domain.ResolvedDependency{}, fmt.Errorf("dependency %s: %w", name, err)
	}
	if dep.Subdir != "" {
		path = filepath.Join(path, filepath.FromSlash(dep.Subdir))
	}

	return domain.ResolvedDependency{
		Name:     name,
		Path:     path,
		Revision: dep.Rev,
		Source:   dep.Git,
	}, nil
}

// isRelativePath reports whether a git source is a path relative to the package
func isRelativePath(source string) bool {
	return source == "." || source == ".." ||
		strings.HasPrefix(source, "./") || strings.HasPrefix(source, "../")
}

func writeBuildInfo(path string, info domain.BuildInfo) error {
	data, err := yaml.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to encode build info: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create build directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write build info: %w", err)
	}
	return nil
}
