package build

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/docrunner/internal/config"
	"git.home.luguber.info/inful/docrunner/internal/git"
	"git.home.luguber.info/inful/docrunner/internal/lazy"
	"git.home.luguber.info/inful/docrunner/internal/process"
	"git.home.luguber.info/inful/docrunner/internal/solution"
	"git.home.luguber.info/inful/docrunner/internal/workspace"
)

// Pipeline holds the state shared by the documentation tasks of one run.
type Pipeline struct {
	cfg       *config.Config
	env       config.Environment
	ref       git.Reference
	workspace *workspace.Manager
	executor  process.Executor
	cloner    git.Cloner
	out       io.Writer
	logger    *slog.Logger

	solution *lazy.Value[*solution.Solution]
	head     *lazy.Value[git.HeadInfo]
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithExecutor sets the process executor (tests inject fakes).
func WithExecutor(e process.Executor) Option {
	return func(p *Pipeline) { p.executor = e }
}

// WithCloner overrides the cloner selected from configuration.
func WithCloner(c git.Cloner) Option {
	return func(p *Pipeline) { p.cloner = c }
}

// WithOutput sets where task listings are written.
func WithOutput(w io.Writer) Option {
	return func(p *Pipeline) { p.out = w }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// New creates the pipeline for cfg and the detected environment.
func New(cfg *config.Config, env config.Environment, opts ...Option) (*Pipeline, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	ref, err := git.ParseReference(cfg.Repository.URL)
	if err != nil {
		return nil, err
	}
	ref.Branch = cfg.Repository.Branch
	if !ref.IsLocal() {
		ref.URL = ref.HTTPSURL()
	}

	p := &Pipeline{
		cfg:       cfg,
		env:       env,
		ref:       ref,
		workspace: workspace.NewManager(cfg.ObjPath()),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.out == nil {
		p.out = os.Stdout
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.executor == nil {
		p.executor = process.NewRunner(nil, nil)
	}
	if p.cloner == nil {
		if cfg.Tools.NativeGit {
			p.cloner = &git.NativeCloner{Progress: p.out}
		} else {
			p.cloner = git.NewExecCloner(cfg.Tools.Git, p.executor)
		}
	}

	p.solution = lazy.New(func() (*solution.Solution, error) {
		return solution.Parse(p.SolutionPath())
	})
	p.head = lazy.New(func() (git.HeadInfo, error) {
		return git.Head(p.CloneDir())
	})
	return p, nil
}

// Reference returns the documented repository.
func (p *Pipeline) Reference() git.Reference { return p.ref }

// CloneDir is <root>/obj/<identifier>.
func (p *Pipeline) CloneDir() string {
	return p.ref.LocalPath(p.workspace.Path())
}

// cloneElem is the clone directory relative to the staging directory.
func (p *Pipeline) cloneElem() string {
	return filepath.FromSlash(p.ref.Identifier)
}

// SolutionPath is the solution file inside the clone.
func (p *Pipeline) SolutionPath() string {
	return p.workspace.Join(p.cloneElem(), filepath.FromSlash(p.cfg.Repository.Solution))
}

// Cloned reports whether the clone directory holds a repository.
func (p *Pipeline) Cloned() bool {
	return p.workspace.Exists(p.cloneElem(), ".git")
}
