package tui

import (
	"github.com/charmbracelet/huh"
)

// ConfirmFn shows a yes/no confirmation prompt. It is a function variable
// so tests can substitute a canned answer.
var ConfirmFn = Confirm

// Confirm shows a yes/no confirmation prompt and returns the choice.
func Confirm(title, description string) (bool, error) {
	var confirmed bool

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(&confirmed),
		),
	).WithTheme(huh.ThemeBase())

	if err := form.Run(); err != nil {
		return false, err
	}
	return confirmed, nil
}
