package model

// RunSpec describes one invocation of the project's test command.
// SlowFlag, when non-empty, is the extra argument that enables the slow
// test subset; the runner appends it after Args.
type RunSpec struct {
	Command  string
	Args     []string
	SlowFlag string
	Dir      string
}

// CommandLine returns the full argument list for the invocation, with the
// slow flag appended when present.
func (s RunSpec) CommandLine() []string {
	args := make([]string, 0, len(s.Args)+1)
	args = append(args, s.Args...)
	if s.SlowFlag != "" {
		args = append(args, s.SlowFlag)
	}
	return args
}

// RunResult is the outcome of a test command invocation. A non-zero
// ExitCode means the suite reported failures; it is not a transport error.
type RunResult struct {
	ExitCode int
}

// Passed reports whether the test command exited cleanly.
func (r RunResult) Passed() bool {
	return r.ExitCode == 0
}
