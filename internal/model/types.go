// Package model defines shared data structures.
package model

// Verification is one external command used to judge an exercise.
type Verification struct {
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
}

// Options defines presentation and build settings for a verification run.
type Options struct {
	Color     bool
	Verbose   bool
	SkipBuild bool
}

// Status classifies a verification run.
type Status int

const (
	StatusSuccess Status = iota
	StatusFailure
)

// Outcome is the result of verifying one exercise. Command and Output are
// only set on failure; Output holds stderr followed by stdout.
type Outcome struct {
	Status  Status
	Command string
	Output  []byte
}

// Success reports whether every stage passed.
func (o Outcome) Success() bool {
	return o.Status == StatusSuccess
}

// Failure builds a failed outcome.
func Failure(command string, output []byte) Outcome {
	return Outcome{Status: StatusFailure, Command: command, Output: output}
}
