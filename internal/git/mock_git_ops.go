package git

import "context"

// MockCommitOperations is a CommitOperations implementation for tests.
// Each operation delegates to the corresponding func field when set and
// defaults to success otherwise.
type MockCommitOperations struct {
	IsRepositoryFn func(root string) bool
	StageFilesFn   func(root string, paths ...string) error
	CommitFn       func(root, message string) error

	// Staged and Messages record the calls that were made.
	Staged   [][]string
	Messages []string
}

// Verify MockCommitOperations implements CommitOperations.
var _ CommitOperations = (*MockCommitOperations)(nil)

func (m *MockCommitOperations) IsRepository(_ context.Context, root string) bool {
	if m.IsRepositoryFn != nil {
		return m.IsRepositoryFn(root)
	}
	return true
}

func (m *MockCommitOperations) StageFiles(_ context.Context, root string, paths ...string) error {
	m.Staged = append(m.Staged, append([]string(nil), paths...))
	if m.StageFilesFn != nil {
		return m.StageFilesFn(root, paths...)
	}
	return nil
}

func (m *MockCommitOperations) Commit(_ context.Context, root, message string) error {
	m.Messages = append(m.Messages, message)
	if m.CommitFn != nil {
		return m.CommitFn(root, message)
	}
	return nil
}
