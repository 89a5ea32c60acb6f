package core

import (
	"errors"
	"fmt"
)

// ErrUsage marks errors caused by invalid command-line usage. The main
// entrypoint maps it to exit code 2.
var ErrUsage = errors.New("usage error")

// UsageErrorf builds an error wrapping ErrUsage.
func UsageErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, args...))
}
