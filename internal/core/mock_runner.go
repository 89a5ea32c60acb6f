package core

import (
	"context"
	"strings"
)

// MockRunner is a Runner implementation for tests. It records every
// invocation and optionally delegates to OnRun to simulate side effects.
type MockRunner struct {
	// Calls holds one recorded entry per invocation.
	Calls []MockCall

	// OnRun, when set, is invoked instead of executing anything.
	// Its return value becomes the result of Run.
	OnRun func(dir string, argv ...string) error

	secrets []string
}

// MockCall records a single Run invocation.
type MockCall struct {
	Dir  string
	Argv []string
}

// Line returns the invocation as a single command line.
func (c MockCall) Line() string {
	return strings.Join(c.Argv, " ")
}

// Verify MockRunner implements Runner.
var _ Runner = (*MockRunner)(nil)

func (m *MockRunner) AddSecret(value string) {
	if value != "" {
		m.secrets = append(m.secrets, value)
	}
}

// Secrets returns the values registered for redaction.
func (m *MockRunner) Secrets() []string {
	return m.secrets
}

func (m *MockRunner) Run(_ context.Context, dir string, argv ...string) error {
	m.Calls = append(m.Calls, MockCall{Dir: dir, Argv: append([]string(nil), argv...)})
	if m.OnRun != nil {
		return m.OnRun(dir, argv...)
	}
	return nil
}

// CallLines returns all recorded invocations as command lines.
func (m *MockRunner) CallLines() []string {
	lines := make([]string, len(m.Calls))
	for i, c := range m.Calls {
		lines[i] = c.Line()
	}
	return lines
}
