package integration_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"movecli/test/integration/harness"
)

type buildInfo struct {
	Dependencies []struct {
		Name     string `yaml:"name"`
		Path     string `yaml:"path"`
		Revision string `yaml:"revision"`
		Source   string `yaml:"source"`
	} `yaml:"dependencies"`
	Package string `yaml:"package"`
}

// writePackage creates <workdir>/<name>/Move.toml depending on every
// source/revision pair in deps (keyed by dependency name)
func writePackage(env *harness.TestEnvironment, name string, deps map[string][2]string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[package]\nname = %q\nversion = \"0.1.0\"\n\n[dependencies]\n", name)
	for dep, src := range deps {
		fmt.Fprintf(&sb, "%s = { git = '%s', rev = '%s' }\n", dep, filepath.ToSlash(src[0]), src[1])
	}
	path := env.WriteFile(name+"/Move.toml", sb.String())
	return filepath.Dir(path)
}

func readBuildInfo(t *testing.T, path string) buildInfo {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var info buildInfo
	require.NoError(t, yaml.Unmarshal(data, &info))
	return info
}

func TestPackageBuild(t *testing.T) {
	repo := harness.NewTestDependencyRepo(t, "Dep")
	repo.Commit("sources/dep.move", "module 0x1::dep {}\n")
	repo.Tag("v1")

	env := harness.NewTestEnvironment(t)
	pkg := writePackage(env, "App", map[string][2]string{"Dep": {repo.Path, "v1"}})

	result := harness.RunCommand(t, env, "package", "build", "-p", pkg)

	harness.AssertSuccess(t, result)
	out := filepath.Join(pkg, "build", "App", "BuildInfo.yaml")
	harness.AssertStdoutContains(t, result, "Build info written to "+out)

	info := readBuildInfo(t, out)
	assert.Equal(t, "App", info.Package)
	require.Len(t, info.Dependencies, 1)
	dep := info.Dependencies[0]
	assert.Equal(t, "Dep", dep.Name)
	assert.Equal(t, "v1", dep.Revision)
	assert.True(t, strings.HasPrefix(dep.Path, env.CachePath()), "dependency checked out under %s, got %s", env.CachePath(), dep.Path)
	assert.FileExists(t, filepath.Join(dep.Path, "sources", "dep.move"))
	assert.NoDirExists(t, filepath.Join(dep.Path, ".git"))
}

func TestPackageBuildUnknownRevision(t *testing.T) {
	repo := harness.NewTestDependencyRepo(t, "Dep")

	env := harness.NewTestEnvironment(t)
	pkg := writePackage(env, "App", map[string][2]string{"Dep": {repo.Path, "no-such-branch"}})

	result := harness.RunCommand(t, env, "package", "build", "-p", pkg)

	harness.AssertExitCode(t, result, 1)
	harness.AssertStderrContains(t, result, "Error: dependency Dep")
	assert.NoFileExists(t, filepath.Join(pkg, "build", "App", "BuildInfo.yaml"))

	// A failed fetch leaves nothing that a later build would trust
	digest := harness.RunCommand(t, env, "cache", "digest")
	harness.AssertSuccess(t, digest)
	empty := harness.RunCommand(t, env, "cache", "digest", "--root", t.TempDir())
	harness.AssertSuccess(t, empty)
	assert.Equal(t, empty.Stdout, digest.Stdout)
}

func TestPackageBuildInvalidManifest(t *testing.T) {
	env := harness.NewTestEnvironment(t)
	env.WriteFile("App/Move.toml", "[package\nname = \"App\"\n")

	result := harness.RunCommand(t, env, "package", "build", "-p", filepath.Join(env.WorkDir, "App"))

	harness.AssertExitCode(t, result, 1)
	harness.AssertStderrContains(t, result, "invalid package manifest")
}

// Concurrent builds that share revisions must leave the cache in the same
// state as running the same builds one after another.
func TestPackageBuildConcurrentMatchesSerial(t *testing.T) {
	framework := harness.NewTestDependencyRepo(t, "Framework")
	framework.Commit("sources/coin.move", "module 0x1::coin {}\n")
	framework.Tag("v1")
	framework.Commit("sources/coin.move", "module 0x1::coin { struct Coin {} }\n")

	stdlib := harness.NewTestDependencyRepo(t, "Stdlib")
	stdlib.Commit("sources/vector.move", "module 0x1::vector {}\n")
	stdlib.Commit("sources/option.move", "module 0x1::option {}\n")

	deps := map[string][2]string{
		"Framework": {framework.Path, "v1"},
		"Stdlib":    {stdlib.Path, "main"},
	}
	const packages = 6

	serial := harness.NewTestEnvironment(t)
	for i := 0; i < packages; i++ {
		pkg := writePackage(serial, fmt.Sprintf("App%d", i), deps)
		harness.AssertSuccess(t, harness.RunCommand(t, serial, "package", "build", "-p", pkg))
	}

	concurrent := harness.NewTestEnvironment(t)
	pkgs := make([]string, packages)
	for i := range pkgs {
		pkgs[i] = writePackage(concurrent, fmt.Sprintf("App%d", i), deps)
	}

	results := make([]harness.CommandResult, packages)
	var wg sync.WaitGroup
	for i, pkg := range pkgs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = harness.RunCommand(t, concurrent, "package", "build", "-p", pkg)
		}()
	}
	wg.Wait()

	for i, result := range results {
		require.Equal(t, 0, result.ExitCode, "build %d failed: %s", i, result.Stderr)
	}

	serialDigest := harness.RunCommand(t, serial, "cache", "digest")
	concurrentDigest := harness.RunCommand(t, concurrent, "cache", "digest")
	harness.AssertSuccess(t, serialDigest)
	harness.AssertSuccess(t, concurrentDigest)
	assert.Equal(t, serialDigest.Stdout, concurrentDigest.Stdout)

	// Every build resolved to the same two entries
	paths := map[string]bool{}
	for _, pkg := range pkgs {
		info := readBuildInfo(t, filepath.Join(pkg, "build", filepath.Base(pkg), "BuildInfo.yaml"))
		for _, dep := range info.Dependencies {
			paths[dep.Path] = true
		}
	}
	assert.Len(t, paths, 2)
}
