package git

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"git.home.luguber.info/inful/docrunner/internal/logfields"
	"git.home.luguber.info/inful/docrunner/internal/process"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Cloner creates a clone of ref at dest. A depth above zero requests a
// shallow clone with that much history.
type Cloner interface {
	Clone(ctx context.Context, ref Reference, dest string, depth int) error
}

// ExecCloner clones through the git executable:
// git clone --depth <n> [--branch <b>] <url> <dest>
type ExecCloner struct {
	Executable string
	Runner     process.Executor
}

// NewExecCloner creates a cloner running executable (usually "git").
func NewExecCloner(executable string, runner process.Executor) *ExecCloner {
	if executable == "" {
		executable = "git"
	}
	return &ExecCloner{Executable: executable, Runner: runner}
}

// Arguments renders the clone arguments.
func (c *ExecCloner) Arguments(ref Reference, dest string, depth int) *process.Arguments {
	args := process.NewArguments("clone").AddIf(depth > 0, fmt.Sprintf("--depth %d", depth))
	if ref.Branch != "" {
		args.Add("--branch").AddLiteral(ref.Branch)
	}
	return args.AddLiteral(ref.URL).AddLiteral(dest)
}

func (c *ExecCloner) Clone(ctx context.Context, ref Reference, dest string, depth int) error {
	return process.RunChecked(ctx, c.Runner, process.Invocation{
		Executable: c.Executable,
		Args:       c.Arguments(ref, dest, depth),
		Echo:       true,
	})
}

// NativeCloner clones with go-git, without a git executable.
type NativeCloner struct {
	Progress io.Writer
}

func (c *NativeCloner) Clone(ctx context.Context, ref Reference, dest string, depth int) error {
	opts := &gogit.CloneOptions{URL: ref.URL, Progress: c.Progress}
	if depth > 0 {
		opts.Depth = depth
	}
	if ref.Branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(ref.Branch)
		opts.SingleBranch = true
	}

	slog.Debug("Cloning repository", logfields.URL(ref.URL), logfields.Path(dest), slog.Int("depth", depth))
	repository, err := gogit.PlainCloneContext(ctx, dest, false, opts)
	if err != nil {
		return classifyCloneError(ref.URL, err)
	}
	if head, herr := repository.Head(); herr == nil {
		slog.Info("Repository cloned successfully", logfields.URL(ref.URL), logfields.Commit(head.Hash().String()[:8]), logfields.Path(dest))
	} else {
		slog.Info("Repository cloned successfully", logfields.URL(ref.URL), logfields.Path(dest))
	}
	return nil
}
