package coverage

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"

	"golang.org/x/tools/cover"

	"movecli/internal/logging"
)

// Converter turns a GOCOVERDIR of binary counters into a text profile
type Converter interface {
	TextProfile(ctx context.Context, dir string) ([]byte, error)
}

// CovdataConverter runs go tool covdata textfmt
type CovdataConverter struct {
	GoBin string
}

// NewCovdataConverter creates a converter using the go binary on PATH
func NewCovdataConverter() *CovdataConverter {
	return &CovdataConverter{GoBin: "go"}
}

func (c *CovdataConverter) TextProfile(ctx context.Context, dir string) ([]byte, error) {
	out, err := os.CreateTemp("", "movecov-*.out")
	if err != nil {
		return nil, err
	}
	outPath := out.Name()
	out.Close()
	defer os.Remove(outPath)

	cmd := exec.CommandContext(ctx, c.GoBin, "tool", "covdata", "textfmt", "-i="+dir, "-o="+outPath)
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("go tool covdata failed: %w: %s", err, bytes.TrimSpace(output))
	}
	return os.ReadFile(outPath)
}

// readRecord returns the profiles of one invocation directory. Directories
// holding *.cov text profiles are read as-is; binary counters go through
// the converter; empty directories mean the child was not instrumented.
func readRecord(ctx context.Context, conv Converter, dir string) ([]*cover.Profile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		logging.Logger.Debug("No coverage counters", "dir", dir)
		return nil, nil
	}

	var (
		profiles []*cover.Profile
		binary   bool
	)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if filepath.Ext(e.Name()) != ".cov" {
			binary = true
			continue
		}
		ps, err := cover.ParseProfiles(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, ps...)
	}

	if binary {
		data, err := conv.TextProfile(ctx, dir)
		if err != nil {
			return nil, err
		}
		ps, err := cover.ParseProfilesFromReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, ps...)
	}
	return profiles, nil
}

type blockKey struct {
	startLine, startCol int
	endLine, endCol     int
	numStmt             int
}

// profileSet is the union of covered blocks across invocations
type profileSet struct {
	files map[string]map[blockKey]int
	mode  string
}

func newProfileSet() *profileSet {
	return &profileSet{files: map[string]map[blockKey]int{}}
}

func (s *profileSet) empty() bool {
	return len(s.files) == 0
}

func (s *profileSet) add(profiles []*cover.Profile) error {
	for _, p := range profiles {
		if s.mode == "" {
			s.mode = p.Mode
		} else if p.Mode != s.mode {
			return fmt.Errorf("mixed coverage modes %q and %q", s.mode, p.Mode)
		}

		blocks := s.files[p.FileName]
		if blocks == nil {
			blocks = map[blockKey]int{}
			s.files[p.FileName] = blocks
		}
		for _, b := range p.Blocks {
			key := blockKey{b.StartLine, b.StartCol, b.EndLine, b.EndCol, b.NumStmt}
			if s.mode == "set" {
				blocks[key] = max(blocks[key], min(b.Count, 1))
			} else {
				blocks[key] += b.Count
			}
		}
	}
	return nil
}

func (s *profileSet) write(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create coverage report: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "mode: %s\n", s.mode)

	names := make([]string, 0, len(s.files))
	for name := range s.files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		blocks := s.files[name]
		keys := make([]blockKey, 0, len(blocks))
		for k := range blocks {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			a, b := keys[i], keys[j]
			if a.startLine != b.startLine {
				return a.startLine < b.startLine
			}
			if a.startCol != b.startCol {
				return a.startCol < b.startCol
			}
			if a.endLine != b.endLine {
				return a.endLine < b.endLine
			}
			return a.endCol < b.endCol
		})
		for _, k := range keys {
			fmt.Fprintf(w, "%s:%d.%d,%d.%d %d %d\n", name, k.startLine, k.startCol, k.endLine, k.endCol, k.numStmt, blocks[k])
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write coverage report: %w", err)
	}
	return f.Close()
}
