package process

import (
	"fmt"

	derrors "git.home.luguber.info/inful/docrunner/internal/errors"
)

// ExitError reports an external process that exited non-zero or could not
// be launched. Code is -1 when no exit code is available.
type ExitError struct {
	Executable  string
	CommandLine string
	Code        int
	Err         error
}

func (e *ExitError) Error() string {
	if e.Code < 0 {
		return fmt.Sprintf("process %q failed: %v", e.CommandLine, e.Err)
	}
	return fmt.Sprintf("process %q exited with code %d", e.CommandLine, e.Code)
}

func (e *ExitError) Unwrap() error                   { return e.Err }
func (e *ExitError) ExitCode() int                   { return e.Code }
func (e *ExitError) Category() derrors.ErrorCategory { return derrors.CategoryProcess }
