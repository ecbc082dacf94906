package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	derrors "git.home.luguber.info/inful/docrunner/internal/errors"
	"git.home.luguber.info/inful/docrunner/internal/process"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingExecutor stands in for the process runner; exit codes are scripted
// by the executable's first argument.
type recordingExecutor struct {
	lines     []string
	envs      [][]string
	exitCodes map[string]int
}

func (e *recordingExecutor) Run(_ context.Context, inv process.Invocation) (int, error) {
	e.lines = append(e.lines, inv.CommandLine())
	e.envs = append(e.envs, inv.Env)
	argv := inv.Args.Argv()
	if len(argv) == 0 {
		return 0, nil
	}
	return e.exitCodes[argv[0]+" "+argv[len(argv)-1]], nil
}

type testApp struct {
	*app
	executor *recordingExecutor
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
	root     string
}

func newTestApp(t *testing.T, ciVars map[string]string) *testApp {
	t.Helper()
	t.Setenv("DOCRUNNER_LOG_LEVEL", "")
	t.Setenv("DOCRUNNER_LOG_FORMAT", "")
	ta := &testApp{
		executor: &recordingExecutor{exitCodes: map[string]int{}},
		stdout:   &bytes.Buffer{},
		stderr:   &bytes.Buffer{},
		root:     t.TempDir(),
	}
	ta.app = &app{
		stdout: ta.stdout,
		stderr: ta.stderr,
		lookupEnv: func(key string) (string, bool) {
			v, ok := ciVars[key]
			return v, ok
		},
		executor: ta.executor,
	}
	return ta
}

func (ta *testApp) run(args ...string) int {
	return ta.app.run(append([]string{"--root", ta.root}, args...))
}

func TestRun_ListTargets(t *testing.T) {
	ta := newTestApp(t, nil)
	require.Equal(t, 0, ta.run("--list"))

	out := ta.stdout.String()
	for _, name := range []string{"Clean", "Restore", "GenerateMetadata", "GenerateBuild", "Projects"} {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "Generate (default)")
	assert.Empty(t, ta.executor.lines)
}

func TestRun_DefaultPlan(t *testing.T) {
	ta := newTestApp(t, nil)
	require.Equal(t, 0, ta.run("--plan"))
	assert.Equal(t, "1. Restore\n2. GenerateMetadata\n3. GenerateBuild\n4. Generate\n", ta.stdout.String())
	assert.Empty(t, ta.executor.lines)
}

func TestRun_PlanWithPositionalTargetsAndSkip(t *testing.T) {
	ta := newTestApp(t, nil)
	require.Equal(t, 0, ta.run("--plan", "--skip", "generatebuild", "clean", "generate"))
	assert.Equal(t,
		"1. Clean\n2. Restore\n3. GenerateMetadata\n4. GenerateBuild (skipped)\n5. Generate\n",
		ta.stdout.String())
}

func TestRun_TargetFlag(t *testing.T) {
	ta := newTestApp(t, nil)
	require.Equal(t, 0, ta.run("--plan", "--target", "GenerateMetadata"))
	assert.Equal(t, "1. Restore\n2. GenerateMetadata\n", ta.stdout.String())
}

func TestRun_LocalBuild(t *testing.T) {
	ta := newTestApp(t, nil)
	require.Equal(t, 0, ta.run(), ta.stderr.String())

	clone := filepath.Join(ta.root, "obj", "teroneko", "Teronis.DotNet")
	assert.Equal(t, []string{
		"dotnet restore",
		"git clone --depth 1 https://github.com/teroneko/Teronis.DotNet.git " + clone,
		"dotnet tool run docfx -- metadata ./docfx.json",
		"dotnet tool run docfx -- build ./docfx.json --maxParallelism 0",
	}, ta.executor.lines)
	assert.Equal(t, []string{"Configuration=Debug"}, ta.executor.envs[0])
	assert.Contains(t, ta.stderr.String(), "run_id=")
}

func TestRun_CIBuildWithConfigurationOverride(t *testing.T) {
	ta := newTestApp(t, map[string]string{"GITHUB_ACTIONS": "true"})
	require.Equal(t, 0, ta.run("--configuration", "debug", "GenerateBuild"), ta.stderr.String())

	require.Len(t, ta.executor.lines, 3)
	assert.Equal(t, "dotnet tool run docfx -- build ./docfx.json", ta.executor.lines[2])
	assert.Equal(t, []string{"Configuration=Debug"}, ta.executor.envs[2])
}

func TestRun_CIDefaultsToRelease(t *testing.T) {
	ta := newTestApp(t, map[string]string{"CI": "true"})
	require.Equal(t, 0, ta.run("Restore"))
	assert.Equal(t, []string{"Configuration=Release"}, ta.executor.envs[0])
}

func TestRun_FailingProcessExitCodePropagates(t *testing.T) {
	ta := newTestApp(t, nil)
	ta.executor.exitCodes["tool ./docfx.json"] = 5

	code := ta.run()
	assert.Equal(t, 5, code)
	assert.Len(t, ta.executor.lines, 3, "execution halts after the failing task")
	assert.Contains(t, ta.stderr.String(), "GenerateMetadata")
}

func TestRun_ErrorExitCodes(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"unknown target", []string{"Publish"}, derrors.ExitValidation},
		{"unknown skip", []string{"--skip", "Publish"}, derrors.ExitValidation},
		{"invalid configuration", []string{"--configuration", "Profile"}, derrors.ExitValidation},
		{"missing config file", []string{"-c", "/nonexistent/docrunner.yaml"}, derrors.ExitConfig},
		{"unknown flag", []string{"--bogus"}, derrors.ExitValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := newTestApp(t, nil)
			assert.Equal(t, tt.want, ta.run(tt.args...))
			assert.Empty(t, ta.executor.lines)
			assert.NotEmpty(t, ta.stderr.String())
		})
	}
}

func TestRun_ConfigFile(t *testing.T) {
	ta := newTestApp(t, nil)
	cfgPath := filepath.Join(t.TempDir(), "docrunner.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
repository:
  url: git@example.com:acme/widgets.git
  depth: 3
tools:
  dotnet: /opt/dotnet/dotnet
docfx:
  config: docs/docfx.json
`), 0o600))

	require.Equal(t, 0, ta.run("-c", cfgPath, "GenerateMetadata"), ta.stderr.String())
	clone := filepath.Join(ta.root, "obj", "acme", "widgets")
	assert.Equal(t, []string{
		"/opt/dotnet/dotnet restore",
		"git clone --depth 3 https://example.com/acme/widgets.git " + clone,
		"/opt/dotnet/dotnet tool run docfx -- metadata docs/docfx.json",
	}, ta.executor.lines)
}

func TestRun_EnvFileInRootConfiguresLogging(t *testing.T) {
	ta := newTestApp(t, nil)
	require.NoError(t, os.WriteFile(filepath.Join(ta.root, ".env"), []byte("DOCRUNNER_LOG_FORMAT=json\n"), 0o600))
	require.NoError(t, os.Unsetenv("DOCRUNNER_LOG_FORMAT"))

	require.Equal(t, 0, ta.run("Restore"))
	assert.Contains(t, ta.stderr.String(), `"msg":"Starting documentation build"`)
	assert.Contains(t, ta.stderr.String(), `"run_id":"`)
}

func TestRun_WritesMetricsFile(t *testing.T) {
	ta := newTestApp(t, nil)
	path := filepath.Join(t.TempDir(), "docrunner.prom")
	require.Equal(t, 0, ta.run("--metrics-file", path, "Restore"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `docrunner_run_outcomes_total{outcome="success"} 1`)
	assert.Contains(t, text, `docrunner_task_results_total{result="success",task="Restore"} 1`)
}

func TestRun_Version(t *testing.T) {
	ta := newTestApp(t, nil)
	assert.Equal(t, 0, ta.run("--version"))
	assert.True(t, strings.HasPrefix(ta.stdout.String(), "docrunner "))
	assert.Empty(t, ta.executor.lines)
}

func TestCLI_RequestedTargets(t *testing.T) {
	assert.Equal(t, []string{"Generate"}, (&CLI{}).requestedTargets())
	cli := &CLI{Target: []string{"Clean"}, Targets: []string{"Projects"}}
	assert.Equal(t, []string{"Clean", "Projects"}, cli.requestedTargets())
}

func TestOutcomeOf(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	assert.Equal(t, "success", string(outcomeOf(ctx, nil)))
	assert.Equal(t, "failed", string(outcomeOf(ctx, assert.AnError)))
	cancel()
	assert.Equal(t, "canceled", string(outcomeOf(ctx, assert.AnError)))
}
