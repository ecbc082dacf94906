package config

import (
	"os"
	"path/filepath"
	"testing"

	derrors "git.home.luguber.info/inful/docrunner/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docrunner.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultRepositoryURL, cfg.Repository.URL)
	assert.Equal(t, DefaultSolution, cfg.Repository.Solution)
	assert.Equal(t, 1, cfg.CloneDepth())
	assert.Equal(t, "git", cfg.Tools.Git)
	assert.Equal(t, "dotnet", cfg.Tools.DotNet)
	assert.Equal(t, "./docfx.json", cfg.DocFx.Config)
	assert.Equal(t, "obj", cfg.ObjPath())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, derrors.IsCategory(err, derrors.CategoryConfig))
}

func TestLoad_OverridesAndExpandsEnv(t *testing.T) {
	t.Setenv("DOCRUNNER_TEST_REPO", "https://example.com/acme/widgets.git")
	path := writeConfig(t, `
root_directory: /srv/docs
repository:
  url: ${DOCRUNNER_TEST_REPO}
  branch: main
  depth: 0
tools:
  native_git: true
docfx:
  config: site/docfx.json
metrics:
  textfile: /tmp/docrunner.prom
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/acme/widgets.git", cfg.Repository.URL)
	assert.Equal(t, "main", cfg.Repository.Branch)
	assert.Equal(t, 0, cfg.CloneDepth())
	assert.True(t, cfg.Tools.NativeGit)
	assert.Equal(t, "git", cfg.Tools.Git)
	assert.Equal(t, "site/docfx.json", cfg.DocFx.Config)
	assert.Equal(t, "/tmp/docrunner.prom", cfg.Metrics.TextFile)
	assert.Equal(t, filepath.Join("/srv/docs", "obj"), cfg.ObjPath())
}

func TestLoad_EmptyFileUsesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, DefaultRepositoryURL, cfg.Repository.URL)
}

func TestLoad_UnknownFieldRejected(t *testing.T) {
	_, err := Load(writeConfig(t, "repositry:\n  url: x\n"))
	require.Error(t, err)
	assert.True(t, derrors.IsCategory(err, derrors.CategoryConfig))
}

func TestLoad_NegativeDepthRejected(t *testing.T) {
	_, err := Load(writeConfig(t, "repository:\n  depth: -1\n"))
	require.Error(t, err)
	assert.True(t, derrors.IsCategory(err, derrors.CategoryValidation))
}

func TestObjPath_Absolute(t *testing.T) {
	cfg := Default()
	cfg.ObjDirectory = "/var/tmp/obj/"
	assert.Equal(t, "/var/tmp/obj", cfg.ObjPath())
}

func TestLoadEnvFiles_LocalTakesPrecedence(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DOCRUNNER_TEST_A=base\nDOCRUNNER_TEST_B=base\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"), []byte("DOCRUNNER_TEST_A=local\n"), 0o600))
	t.Setenv("DOCRUNNER_TEST_A", "")
	t.Setenv("DOCRUNNER_TEST_B", "")
	require.NoError(t, os.Unsetenv("DOCRUNNER_TEST_A"))
	require.NoError(t, os.Unsetenv("DOCRUNNER_TEST_B"))

	LoadEnvFiles(dir)
	assert.Equal(t, "local", os.Getenv("DOCRUNNER_TEST_A"))
	assert.Equal(t, "base", os.Getenv("DOCRUNNER_TEST_B"))
}
