package script

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/tools/txtar"

	"movecli/internal/domain"
	"movecli/internal/logging"
	"movecli/internal/ports"
)

// Extension is the file extension of test scripts
const Extension = ".txtar"

// Loader implements ports.ScriptLoader for txtar scripts
type Loader struct{}

// Compile-time interface verification
var _ ports.ScriptLoader = (*Loader)(nil)

// NewLoader creates a script loader
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads and parses the script at path
func (l *Loader) Load(path string) (*domain.Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	script, err := Parse(path, data)
	if err != nil {
		return nil, err
	}
	logging.Logger.Debug("Loaded script", "path", path, "steps", len(script.Steps), "files", len(script.Files))
	return script, nil
}

// Parse parses a txtar archive. The comment section holds the directives,
// the archive files are fixtures.
func Parse(path string, data []byte) (*domain.Script, error) {
	archive := txtar.Parse(data)

	p := &parser{lastRun: -1, path: path}
	for i, line := range strings.Split(string(archive.Comment), "\n") {
		if err := p.parseLine(i+1, line); err != nil {
			return nil, err
		}
	}
	if p.pendingStdin != "" {
		return nil, p.errorf(p.pendingStdinLine, "stdin %s is not followed by a run", p.pendingStdin)
	}
	if len(p.steps) == 0 {
		return nil, fmt.Errorf("%w: %s: script has no steps", domain.ErrScriptSyntax, path)
	}

	seen := map[string]bool{}
	files := make([]domain.Fixture, 0, len(archive.Files))
	for _, f := range archive.Files {
		name := filepath.FromSlash(f.Name)
		if !filepath.IsLocal(name) {
			return nil, fmt.Errorf("%w: %s: fixture %q escapes the workspace", domain.ErrScriptSyntax, path, f.Name)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: %s: duplicate fixture %q", domain.ErrScriptSyntax, path, f.Name)
		}
		seen[name] = true
		files = append(files, domain.Fixture{Data: f.Data, Name: name})
	}

	return &domain.Script{
		Files: files,
		Name:  strings.TrimSuffix(filepath.Base(path), Extension),
		Path:  path,
		Steps: p.steps,
	}, nil
}

type parser struct {
	path             string
	steps            []domain.Step
	lastRun          int // index into steps of the run assertions attach to; -1 when none
	pendingStdin     string
	pendingStdinLine int
}

func (p *parser) errorf(line int, format string, args ...any) error {
	return fmt.Errorf("%w: %s:%d: %s", domain.ErrScriptSyntax, p.path, line, fmt.Sprintf(format, args...))
}

func (p *parser) add(step domain.Step) {
	step.Index = len(p.steps)
	p.steps = append(p.steps, step)
	if step.Op == domain.OpRun {
		p.lastRun = step.Index
	} else {
		p.lastRun = -1
	}
}

func (p *parser) run(line int, what string) (*domain.Step, error) {
	if p.lastRun < 0 {
		return nil, p.errorf(line, "%s must directly follow a run", what)
	}
	return &p.steps[p.lastRun], nil
}

func (p *parser) parseLine(line int, text string) error {
	text = strings.TrimSpace(text)
	if text == "" || strings.HasPrefix(text, "#") {
		return nil
	}
	words, err := splitWords(text)
	if err != nil {
		return p.errorf(line, "%v", err)
	}

	negate := false
	if words[0] == "!" {
		negate = true
		words = words[1:]
		if len(words) == 0 {
			return p.errorf(line, "'!' without a command")
		}
	}
	cmd, args := words[0], words[1:]

	switch cmd {
	case "run":
		return p.parseRun(line, negate, args)
	case "exit":
		return p.parseExit(line, negate, args)
	case "stdout", "stderr":
		return p.parseStream(line, negate, domain.Stream(cmd), args)
	case "cmp":
		return p.parseCmp(line, negate, args)
	case "grep":
		return p.parseGrep(line, negate, args)
	case "stdin":
		if negate || len(args) != 1 {
			return p.errorf(line, "usage: stdin FILE")
		}
		if p.pendingStdin != "" {
			return p.errorf(line, "stdin already set to %s", p.pendingStdin)
		}
		p.pendingStdin, p.pendingStdinLine = args[0], line
		return nil
	case "env":
		if negate || len(args) == 0 {
			return p.errorf(line, "usage: env NAME=VALUE...")
		}
		for _, kv := range args {
			if name, _, ok := strings.Cut(kv, "="); !ok || name == "" {
				return p.errorf(line, "env argument %q is not NAME=VALUE", kv)
			}
		}
		p.add(domain.Step{Args: args, Line: line, Op: domain.OpEnv})
		return nil
	case "chmod":
		if negate || len(args) != 2 {
			return p.errorf(line, "usage: chmod MODE PATH")
		}
		if _, err := strconv.ParseUint(args[0], 8, 32); err != nil {
			return p.errorf(line, "invalid mode %q", args[0])
		}
		p.add(domain.Step{Args: args, Line: line, Op: domain.OpChmod})
		return nil
	case "exists":
		if len(args) == 0 {
			return p.errorf(line, "usage: [!] exists PATH...")
		}
		p.add(domain.Step{Args: args, Line: line, Negate: negate, Op: domain.OpExists})
		return nil
	case "mkdir", "rm":
		if negate || len(args) == 0 {
			return p.errorf(line, "usage: %s PATH...", cmd)
		}
		p.add(domain.Step{Args: args, Line: line, Op: domain.StepOp(cmd)})
		return nil
	default:
		return p.errorf(line, "unknown command %q", cmd)
	}
}

func (p *parser) parseRun(line int, negate bool, args []string) error {
	exit := domain.ExitExpectation{Mode: domain.ExitSuccess}
	if negate {
		exit.Mode = domain.ExitFailure
	}
	p.add(domain.Step{
		Args:  args,
		Exit:  exit,
		Line:  line,
		Op:    domain.OpRun,
		Stdin: p.pendingStdin,
	})
	p.pendingStdin = ""
	return nil
}

func (p *parser) parseExit(line int, negate bool, args []string) error {
	if negate || len(args) != 1 {
		return p.errorf(line, "usage: exit CODE")
	}
	code, err := strconv.Atoi(args[0])
	if err != nil || code < 0 || code > 255 {
		return p.errorf(line, "invalid exit code %q", args[0])
	}
	run, err := p.run(line, "exit")
	if err != nil {
		return err
	}
	if len(run.Assertions) > 0 {
		return p.errorf(line, "exit must come before output assertions")
	}
	run.Exit = domain.ExitExpectation{Code: code, Mode: domain.ExitExact}
	return nil
}

// matchFlag consumes a leading -exact or -contains
func matchFlag(args []string) (domain.MatchKind, []string) {
	if len(args) > 0 {
		switch args[0] {
		case "-exact":
			return domain.MatchExact, args[1:]
		case "-contains":
			return domain.MatchContains, args[1:]
		}
	}
	return domain.MatchPattern, args
}

func (p *parser) checkValue(line int, kind domain.MatchKind, value string) (string, error) {
	switch kind {
	case domain.MatchExact:
		return unescape(value), nil
	case domain.MatchPattern:
		if _, err := regexp.Compile(value); err != nil {
			return "", p.errorf(line, "invalid pattern %q: %v", value, err)
		}
	}
	return value, nil
}

func (p *parser) parseStream(line int, negate bool, stream domain.Stream, args []string) error {
	kind, rest := matchFlag(args)
	if len(rest) != 1 {
		return p.errorf(line, "usage: [!] %s [-exact|-contains] VALUE", stream)
	}
	value, err := p.checkValue(line, kind, rest[0])
	if err != nil {
		return err
	}
	run, err := p.run(line, string(stream))
	if err != nil {
		return err
	}
	run.Assertions = append(run.Assertions, domain.Assertion{
		Kind:   kind,
		Line:   line,
		Negate: negate,
		Stream: stream,
		Value:  value,
	})
	return nil
}

func (p *parser) parseCmp(line int, negate bool, args []string) error {
	if len(args) != 2 || (args[0] != "stdout" && args[0] != "stderr") {
		return p.errorf(line, "usage: [!] cmp stdout|stderr FILE")
	}
	run, err := p.run(line, "cmp")
	if err != nil {
		return err
	}
	run.Assertions = append(run.Assertions, domain.Assertion{
		Kind:   domain.MatchExact,
		Line:   line,
		Negate: negate,
		Path:   args[1],
		Stream: domain.Stream(args[0]),
	})
	return nil
}

func (p *parser) parseGrep(line int, negate bool, args []string) error {
	kind, rest := matchFlag(args)
	if len(rest) != 2 {
		return p.errorf(line, "usage: [!] grep [-exact|-contains] VALUE FILE")
	}
	value, err := p.checkValue(line, kind, rest[0])
	if err != nil {
		return err
	}
	p.add(domain.Step{
		Assertions: []domain.Assertion{{
			Kind:   kind,
			Line:   line,
			Negate: negate,
			Path:   rest[1],
			Stream: domain.StreamFile,
			Value:  value,
		}},
		Line: line,
		Op:   domain.OpGrep,
	})
	return nil
}
