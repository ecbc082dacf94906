package build

import (
	"context"
	"fmt"
	"log/slog"

	derrors "git.home.luguber.info/inful/docrunner/internal/errors"
	"git.home.luguber.info/inful/docrunner/internal/logfields"
	"git.home.luguber.info/inful/docrunner/internal/process"
	"git.home.luguber.info/inful/docrunner/internal/taskgraph"
)

// Task names.
const (
	TaskClean            = "Clean"
	TaskRestore          = "Restore"
	TaskGenerateMetadata = "GenerateMetadata"
	TaskGenerateBuild    = "GenerateBuild"
	TaskGenerate         = "Generate"
	TaskProjects         = "Projects"

	// DefaultTarget runs when no target is named.
	DefaultTarget = TaskGenerate
)

// Register adds the pipeline tasks to g.
func (p *Pipeline) Register(g *taskgraph.Graph) error {
	tasks := []*taskgraph.Task{
		{
			Name:        TaskClean,
			Description: "Delete the staging directory",
			Before:      []string{TaskRestore},
			Action:      func(context.Context) error { return p.workspace.Clean() },
		},
		{
			Name:        TaskRestore,
			Description: "Restore the host project and clone the documented repository",
			Action:      p.restore,
		},
		{
			Name:        TaskGenerateMetadata,
			Description: "Extract API metadata with docfx",
			DependsOn:   []string{TaskRestore},
			Action: func(ctx context.Context) error {
				return process.RunChecked(ctx, p.executor, p.docfxInvocation(p.metadataArguments()))
			},
		},
		{
			Name:        TaskGenerateBuild,
			Description: "Build the documentation site with docfx",
			DependsOn:   []string{TaskRestore},
			After:       []string{TaskGenerateMetadata},
			Action: func(ctx context.Context) error {
				return process.RunChecked(ctx, p.executor, p.docfxInvocation(p.buildArguments()))
			},
		},
		{
			Name:        TaskGenerate,
			Description: "Generate the documentation",
			DependsOn:   []string{TaskGenerateMetadata, TaskGenerateBuild},
			Action:      p.generate,
		},
		{
			Name:        TaskProjects,
			Description: "List the projects of the cloned solution",
			DependsOn:   []string{TaskRestore},
			Action:      func(context.Context) error { return p.listProjects() },
		},
	}
	for _, t := range tasks {
		if err := g.Register(t); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) restore(ctx context.Context) error {
	if err := process.RunChecked(ctx, p.executor, p.dotnetInvocation(process.NewArguments("restore"))); err != nil {
		return err
	}
	dest := p.CloneDir()
	if p.Cloned() {
		p.logger.Info("Repository already cloned", logfields.URL(p.ref.URL), logfields.Path(dest))
		return nil
	}
	return p.cloner.Clone(ctx, p.ref, dest, p.cfg.CloneDepth())
}

func (p *Pipeline) generate(context.Context) error {
	head, err := p.head.Get()
	if err != nil {
		p.logger.Warn("Could not read cloned revision", logfields.Path(p.CloneDir()), logfields.Error(err))
		return nil
	}
	p.logger.Info("Documentation generated",
		logfields.URL(p.ref.URL),
		logfields.Commit(head.Short()),
		slog.String("branch", head.Branch),
		slog.String("subject", head.Subject),
		logfields.Configuration(string(p.env.Configuration)))
	return nil
}

func (p *Pipeline) listProjects() error {
	sln, err := p.solution.Get()
	if err != nil {
		return derrors.BuildFailed("read solution", err).WithContext("path", p.SolutionPath())
	}
	for _, project := range sln.Projects {
		if _, err := fmt.Fprintf(p.out, "%s\t%s\n", project.Name, project.Path); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) metadataArguments() *process.Arguments {
	return process.NewArguments("metadata").AddLiteral(p.cfg.DocFx.Config)
}

// Local builds let docfx pick its own parallelism.
func (p *Pipeline) buildArguments() *process.Arguments {
	return process.NewArguments("build").
		AddLiteral(p.cfg.DocFx.Config).
		AddIf(p.env.IsLocalBuild, "--maxParallelism 0")
}

// docfx runs as a local dotnet tool: dotnet tool run docfx -- <args>
func (p *Pipeline) docfxInvocation(args *process.Arguments) process.Invocation {
	return p.dotnetInvocation(process.NewArguments("tool run docfx --").Append(args))
}

func (p *Pipeline) dotnetInvocation(args *process.Arguments) process.Invocation {
	return process.Invocation{
		Executable: p.cfg.Tools.DotNet,
		Args:       args,
		Dir:        p.cfg.RootDirectory,
		Env:        []string{"Configuration=" + string(p.env.Configuration)},
		Echo:       true,
	}
}
