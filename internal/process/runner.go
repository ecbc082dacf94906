package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"time"

	"git.home.luguber.info/inful/docrunner/internal/logfields"
	"git.home.luguber.info/inful/docrunner/internal/metrics"
)

const (
	maxLineSize = 1024 * 1024
	// waitDelay bounds how long Wait keeps reading output after the child
	// exited or was canceled.
	waitDelay = 5 * time.Second
)

// Invocation describes one run of an external executable.
type Invocation struct {
	Executable string
	Args       *Arguments
	Dir        string
	// Env holds extra KEY=VALUE pairs appended to the inherited environment.
	Env []string
	// Echo writes the rendered command line to the output sink before launch.
	Echo bool
}

// CommandLine renders the executable and its arguments.
func (i Invocation) CommandLine() string {
	args := i.Args.Render()
	if args == "" {
		return i.Executable
	}
	return i.Executable + " " + args
}

// Executor runs invocations. Runner is the production implementation.
type Executor interface {
	Run(ctx context.Context, inv Invocation) (int, error)
}

// Runner launches processes and forwards their output to two sinks.
type Runner struct {
	stdout   io.Writer
	stderr   io.Writer
	recorder metrics.Recorder
}

// NewRunner creates a runner writing child output to stdout and stderr.
// Nil sinks default to the process' own streams.
func NewRunner(stdout, stderr io.Writer) *Runner {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return &Runner{stdout: stdout, stderr: stderr, recorder: metrics.NoopRecorder{}}
}

// WithRecorder attaches a metrics recorder (fluent helper).
func (r *Runner) WithRecorder(rec metrics.Recorder) *Runner {
	if rec != nil {
		r.recorder = rec
	}
	return r
}

// Run launches the invocation and blocks until the process exits. It returns
// the exit code. A non-nil error means the process could not be launched or
// waited for; a non-zero exit alone is not an error here.
//
// Canceling ctx terminates the child's whole process group. Output pipes held
// open by surviving descendants are closed after WaitDelay.
func (r *Runner) Run(ctx context.Context, inv Invocation) (int, error) {
	line := inv.CommandLine()
	var mu sync.Mutex
	out := &lineWriter{w: r.stdout, mu: &mu}
	errOut := &lineWriter{w: r.stderr, mu: &mu}

	if inv.Echo {
		out.writeLocked([]byte("> " + line + "\n"))
	}

	// #nosec G204 -- executable and arguments come from the build definition
	cmd := exec.CommandContext(ctx, inv.Executable, inv.Args.Argv()...)
	cmd.Dir = inv.Dir
	if len(inv.Env) > 0 {
		cmd.Env = append(os.Environ(), inv.Env...)
	}
	cmd.Stdout = out
	cmd.Stderr = errOut
	cmd.WaitDelay = waitDelay
	setProcessGroup(cmd)

	slog.Debug("Launching process", logfields.Executable(inv.Executable), logfields.Command(line), logfields.Path(inv.Dir))
	start := time.Now()
	if err := cmd.Start(); err != nil {
		return -1, &ExitError{Executable: inv.Executable, CommandLine: line, Code: -1, Err: err}
	}

	waitErr := cmd.Wait()
	out.flush()
	errOut.flush()
	elapsed := time.Since(start)

	code := 0
	if cmd.ProcessState != nil {
		code = cmd.ProcessState.ExitCode()
	}
	r.recorder.ObserveProcessDuration(inv.Executable, elapsed, code)
	slog.Debug("Process exited", logfields.Executable(inv.Executable), logfields.ExitCode(code), logfields.DurationMS(float64(elapsed.Milliseconds())))

	if ctxErr := ctx.Err(); ctxErr != nil {
		return -1, &ExitError{Executable: inv.Executable, CommandLine: line, Code: -1, Err: ctxErr}
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) && code >= 0 {
			return code, nil
		}
		if errors.Is(waitErr, exec.ErrWaitDelay) && code >= 0 {
			slog.Warn("Process exited but its output stayed open", logfields.Executable(inv.Executable), logfields.ExitCode(code))
			return code, nil
		}
		return -1, &ExitError{Executable: inv.Executable, CommandLine: line, Code: -1, Err: waitErr}
	}
	return code, nil
}

// RunChecked runs inv on e and converts a non-zero exit into an *ExitError.
func RunChecked(ctx context.Context, e Executor, inv Invocation) error {
	code, err := e.Run(ctx, inv)
	if err != nil {
		return err
	}
	if code != 0 {
		return &ExitError{
			Executable:  inv.Executable,
			CommandLine: inv.CommandLine(),
			Code:        code,
			Err:         fmt.Errorf("exit status %d", code),
		}
	}
	return nil
}

// lineWriter forwards one output stream line by line. Both streams share mu,
// which is only held while writing to a sink. A line longer than maxLineSize
// is passed on in chunks.
type lineWriter struct {
	w   io.Writer
	mu  *sync.Mutex
	buf []byte
}

func (lw *lineWriter) Write(p []byte) (int, error) {
	lw.buf = append(lw.buf, p...)
	for {
		i := bytes.IndexByte(lw.buf, '\n')
		if i < 0 {
			break
		}
		lineEnd := i
		if lineEnd > 0 && lw.buf[lineEnd-1] == '\r' {
			lineEnd--
		}
		lw.writeLocked(append(lw.buf[:lineEnd:lineEnd], '\n'))
		lw.buf = lw.buf[:copy(lw.buf, lw.buf[i+1:])]
	}
	if len(lw.buf) >= maxLineSize {
		lw.writeLocked(lw.buf)
		lw.buf = lw.buf[:0]
	}
	return len(p), nil
}

// flush terminates a trailing partial line.
func (lw *lineWriter) flush() {
	if len(lw.buf) > 0 {
		lw.writeLocked(append(lw.buf, '\n'))
		lw.buf = nil
	}
}

// Sink errors are ignored so a broken sink never stalls the child.
func (lw *lineWriter) writeLocked(b []byte) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	_, _ = lw.w.Write(b)
}
