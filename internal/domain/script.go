package domain

import (
	"fmt"
	"strings"
)

// StepOp identifies what a step does
type StepOp string

const (
	OpChmod  StepOp = "chmod"  // change permissions of a workspace path
	OpEnv    StepOp = "env"    // set an environment variable for later steps
	OpExists StepOp = "exists" // assert a workspace path exists (or not)
	OpGrep   StepOp = "grep"   // assert on a workspace file's content
	OpMkdir  StepOp = "mkdir"  // create a workspace directory
	OpRm     StepOp = "rm"     // remove a workspace path
	OpRun    StepOp = "run"    // invoke the binary under test
)

// ExitMode describes which exit statuses satisfy a run step
type ExitMode string

const (
	ExitSuccess ExitMode = "success"
	ExitFailure ExitMode = "failure"
	ExitExact   ExitMode = "exact"
)

// ExitExpectation is the expected termination status of a run step
type ExitExpectation struct {
	Code int
	Mode ExitMode
}

// Matches reports whether code satisfies the expectation
func (e ExitExpectation) Matches(code int) bool {
	switch e.Mode {
	case ExitFailure:
		return code != 0
	case ExitExact:
		return code == e.Code
	default:
		return code == 0
	}
}

func (e ExitExpectation) String() string {
	switch e.Mode {
	case ExitFailure:
		return "non-zero exit status"
	case ExitExact:
		return fmt.Sprintf("exit status %d", e.Code)
	default:
		return "exit status 0"
	}
}

// Stream names the output an assertion inspects
type Stream string

const (
	StreamFile   Stream = "file"
	StreamStderr Stream = "stderr"
	StreamStdout Stream = "stdout"
)

// MatchKind is how an assertion compares expected and actual text
type MatchKind string

const (
	MatchContains MatchKind = "contains"
	MatchExact    MatchKind = "exact"
	MatchPattern  MatchKind = "pattern"
)

// Assertion checks one output stream or workspace file
type Assertion struct {
	Kind   MatchKind
	Line   int
	Negate bool
	Path   string // workspace file, for StreamFile or when Value comes from a golden file
	Stream Stream
	Value  string
}

func (a Assertion) String() string {
	var b strings.Builder
	if a.Negate {
		b.WriteString("! ")
	}
	b.WriteString(string(a.Stream))
	fmt.Fprintf(&b, " %s %q", a.Kind, a.Value)
	if a.Path != "" {
		fmt.Fprintf(&b, " (%s)", a.Path)
	}
	return b.String()
}

// Step is one directive of a test script
type Step struct {
	Args       []string
	Assertions []Assertion
	Exit       ExitExpectation
	Index      int
	Line       int
	Negate     bool // for OpExists
	Op         StepOp
	Stdin      string // workspace-relative file fed to the child's stdin; empty for none
}

// Fixture is a file embedded in a script archive
type Fixture struct {
	Data []byte
	Name string
}

// Script is a parsed test script. It is never mutated after loading.
type Script struct {
	Files []Fixture
	Name  string
	Path  string
	Steps []Step
}

// RunSteps returns the number of steps that invoke the binary under test
func (s *Script) RunSteps() int {
	n := 0
	for _, st := range s.Steps {
		if st.Op == OpRun {
			n++
		}
	}
	return n
}
