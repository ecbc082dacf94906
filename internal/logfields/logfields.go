package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID         = "run_id"
	KeyTask          = "task"
	KeyTarget        = "target"
	KeyState         = "state"
	KeyExecutable    = "executable"
	KeyCommand       = "command"
	KeyExitCode      = "exit_code"
	KeyPath          = "path"
	KeyURL           = "url"
	KeyCommit        = "commit"
	KeyConfiguration = "configuration"
	KeyDurationMS    = "duration_ms"
	KeyError         = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr        { return slog.String(KeyRunID, id) }
func Task(name string) slog.Attr       { return slog.String(KeyTask, name) }
func Target(name string) slog.Attr     { return slog.String(KeyTarget, name) }
func State(s string) slog.Attr         { return slog.String(KeyState, s) }
func Executable(name string) slog.Attr { return slog.String(KeyExecutable, name) }
func Command(line string) slog.Attr    { return slog.String(KeyCommand, line) }
func ExitCode(code int) slog.Attr      { return slog.Int(KeyExitCode, code) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func URL(u string) slog.Attr           { return slog.String(KeyURL, u) }
func Commit(c string) slog.Attr        { return slog.String(KeyCommit, c) }
func Configuration(c string) slog.Attr { return slog.String(KeyConfiguration, c) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
