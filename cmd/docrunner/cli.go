package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/docrunner/internal/build"
	"git.home.luguber.info/inful/docrunner/internal/config"
	derrors "git.home.luguber.info/inful/docrunner/internal/errors"
	"git.home.luguber.info/inful/docrunner/internal/logfields"
	"git.home.luguber.info/inful/docrunner/internal/metrics"
	"git.home.luguber.info/inful/docrunner/internal/process"
	"git.home.luguber.info/inful/docrunner/internal/taskgraph"
	"git.home.luguber.info/inful/docrunner/internal/version"
	"github.com/alecthomas/kong"
	"github.com/google/uuid"
)

// CLI definition & global flags.
type CLI struct {
	Targets       []string         `arg:"" optional:"" name:"targets" help:"Targets to run (default: ${default_target})."`
	Target        []string         `name:"target" short:"t" help:"Target to run; repeatable." placeholder:"NAME"`
	Configuration string           `help:"Build configuration: Debug or Release (default: Debug locally, Release on CI)." placeholder:"CFG"`
	Skip          []string         `help:"Skip the named task; repeatable." placeholder:"NAME"`
	Plan          bool             `help:"Print the execution plan and exit."`
	List          bool             `short:"l" help:"List the available targets and exit."`
	Config        string           `short:"c" help:"Configuration file path (optional)." placeholder:"FILE"`
	Root          string           `help:"Root directory of the build." placeholder:"DIR"`
	Verbose       bool             `short:"v" help:"Enable verbose logging"`
	MetricsFile   string           `name:"metrics-file" help:"Write Prometheus metrics to this file after the run." placeholder:"FILE"`
	Version       kong.VersionFlag `name:"version" help:"Show version and exit"`
}

// requestedTargets returns the --target values followed by the positional
// targets, or the default target when none were named.
func (c *CLI) requestedTargets() []string {
	targets := append(append([]string{}, c.Target...), c.Targets...)
	if len(targets) == 0 {
		return []string{build.DefaultTarget}
	}
	return targets
}

// app carries the process-wide dependencies of a run.
type app struct {
	stdout    io.Writer
	stderr    io.Writer
	lookupEnv config.LookupFunc
	// executor overrides the process runner (tests).
	executor process.Executor
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{stdout: stdout, stderr: stderr, lookupEnv: os.LookupEnv}
}

// run parses args, executes the requested targets and returns the exit code.
func (a *app) run(args []string) int {
	var cli CLI
	exited, exitCode := false, 0
	parser, err := kong.New(&cli,
		kong.Name("docrunner"),
		kong.Description("Build the API documentation site with docfx."),
		kong.Writers(a.stdout, a.stderr),
		kong.Vars{"version": version.String(), "default_target": build.DefaultTarget},
		kong.Exit(func(code int) { exited, exitCode = true, code }),
	)
	if err != nil {
		_, _ = fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return derrors.ExitInternal
	}
	if _, err := parser.Parse(args); exited {
		return exitCode
	} else if err != nil {
		_, _ = fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return derrors.ExitValidation
	}

	// .env files may set the log level and format, so they load first.
	config.LoadEnvFiles(cli.Root)
	logger := config.NewLogger(a.stderr, cli.Verbose).With(logfields.RunID(uuid.NewString()))
	slog.SetDefault(logger)
	adapter := derrors.NewCLIErrorAdapter(cli.Verbose, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.execute(ctx, &cli, logger); err != nil {
		return adapter.Report(a.stderr, err)
	}
	return 0
}

func (a *app) execute(ctx context.Context, cli *CLI, logger *slog.Logger) error {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}
	if cli.Root != "" {
		cfg.RootDirectory = cli.Root
	}
	if cli.MetricsFile != "" {
		cfg.Metrics.TextFile = cli.MetricsFile
	}

	env := config.DetectEnvironment(a.lookupEnv)
	if cli.Configuration != "" {
		c, err := config.ParseConfiguration(cli.Configuration)
		if err != nil {
			return err
		}
		env = env.WithConfiguration(c)
	}

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var promRecorder *metrics.PrometheusRecorder
	if cfg.Metrics.TextFile != "" {
		promRecorder = metrics.NewPrometheusRecorder(nil)
		recorder = promRecorder
	}

	executor := a.executor
	if executor == nil {
		executor = process.NewRunner(a.stdout, a.stderr).WithRecorder(recorder)
	}
	pipeline, err := build.New(cfg, env,
		build.WithExecutor(executor),
		build.WithOutput(a.stdout),
		build.WithLogger(logger))
	if err != nil {
		return derrors.ConfigInvalid(cli.Config, err)
	}
	graph := taskgraph.New(taskgraph.WithLogger(logger), taskgraph.WithRecorder(recorder))
	if err := pipeline.Register(graph); err != nil {
		return err
	}

	if cli.List {
		return listTasks(a.stdout, graph)
	}

	plan, err := graph.ResolveAll(cli.requestedTargets()...)
	if err != nil {
		return err
	}
	if err := plan.Skip(cli.Skip...); err != nil {
		return err
	}
	if cli.Plan {
		return printPlan(a.stdout, plan)
	}

	logger.Info("Starting documentation build",
		logfields.Target(strings.Join(plan.Targets, ",")),
		logfields.Configuration(string(env.Configuration)),
		slog.Bool("local", env.IsLocalBuild),
		slog.String("ci_server", env.CIServer),
		logfields.URL(pipeline.Reference().URL))

	start := time.Now()
	result, runErr := graph.Execute(ctx, plan)
	elapsed := time.Since(start)

	recorder.ObserveRunDuration(elapsed)
	recorder.IncRunOutcome(outcomeOf(ctx, runErr))
	if promRecorder != nil {
		if err := promRecorder.WriteTextfile(cfg.Metrics.TextFile); err != nil {
			logger.Warn("Failed to write metrics file", logfields.Path(cfg.Metrics.TextFile), logfields.Error(err))
		}
	}

	if runErr != nil {
		return runErr
	}
	logger.Info("Build completed",
		slog.Int("tasks", len(result.Tasks)),
		logfields.DurationMS(float64(elapsed.Milliseconds())))
	return nil
}

func outcomeOf(ctx context.Context, err error) metrics.ResultLabel {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case ctx.Err() != nil:
		return metrics.ResultCanceled
	default:
		return metrics.ResultFailed
	}
}

func listTasks(w io.Writer, g *taskgraph.Graph) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, t := range g.Tasks() {
		name := t.Name
		if name == build.DefaultTarget {
			name += " (default)"
		}
		deps := ""
		if len(t.DependsOn) > 0 {
			deps = "-> " + strings.Join(t.DependsOn, ", ")
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\n", name, t.Description, deps); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func printPlan(w io.Writer, plan *taskgraph.Plan) error {
	for i, t := range plan.Tasks {
		suffix := ""
		if plan.IsSkipped(t.Name) {
			suffix = " (skipped)"
		}
		if _, err := fmt.Fprintf(w, "%d. %s%s\n", i+1, t.Name, suffix); err != nil {
			return err
		}
	}
	return nil
}
