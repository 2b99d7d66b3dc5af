package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitExpectation(t *testing.T) {
	tests := []struct {
		exp   ExitExpectation
		code  int
		match bool
		text  string
	}{
		{ExitExpectation{Mode: ExitSuccess}, 0, true, "exit status 0"},
		{ExitExpectation{Mode: ExitSuccess}, 1, false, "exit status 0"},
		{ExitExpectation{Mode: ExitFailure}, 0, false, "non-zero exit status"},
		{ExitExpectation{Mode: ExitFailure}, 3, true, "non-zero exit status"},
		{ExitExpectation{Mode: ExitExact, Code: 2}, 2, true, "exit status 2"},
		{ExitExpectation{Mode: ExitExact, Code: 2}, 1, false, "exit status 2"},
		{ExitExpectation{}, 0, true, "exit status 0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.match, tt.exp.Matches(tt.code), "%s vs %d", tt.exp, tt.code)
		assert.Equal(t, tt.text, tt.exp.String())
	}
}

func TestAssertionString(t *testing.T) {
	a := Assertion{Kind: MatchContains, Negate: true, Stream: StreamStderr, Value: "panic"}
	assert.Equal(t, `! stderr contains "panic"`, a.String())

	g := Assertion{Kind: MatchPattern, Path: "out.txt", Stream: StreamFile, Value: "^ok$"}
	assert.Equal(t, `file pattern "^ok$" (out.txt)`, g.String())
}

func TestRunSteps(t *testing.T) {
	s := &Script{Steps: []Step{{Op: OpRun}, {Op: OpEnv}, {Op: OpRun}, {Op: OpGrep}}}
	assert.Equal(t, 2, s.RunSteps())
}
