package config

import (
	"fmt"
	"os"
	"strings"

	derrors "git.home.luguber.info/inful/docrunner/internal/errors"
)

// Configuration is the build configuration passed to the tools.
type Configuration string

const (
	Debug   Configuration = "Debug"
	Release Configuration = "Release"
)

// ParseConfiguration accepts Debug or Release in any case.
func ParseConfiguration(raw string) (Configuration, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return Debug, nil
	case "release":
		return Release, nil
	default:
		return "", derrors.ValidationFailed("configuration", fmt.Sprintf("unsupported value %q (want Debug or Release)", raw))
	}
}

// ciVariables maps environment variables set by CI servers to their names.
// The generic CI variable is checked last.
var ciVariables = []struct {
	env    string
	server string
}{
	{"GITHUB_ACTIONS", "GitHubActions"},
	{"TF_BUILD", "AzurePipelines"},
	{"GITLAB_CI", "GitLab"},
	{"APPVEYOR", "AppVeyor"},
	{"TRAVIS", "Travis"},
	{"JENKINS_URL", "Jenkins"},
	{"TEAMCITY_VERSION", "TeamCity"},
	{"BITBUCKET_BUILD_NUMBER", "Bitbucket"},
	{"BUILDKITE", "Buildkite"},
	{"CIRCLECI", "CircleCI"},
	{"CI", "CI"},
}

// Environment is computed once at start-up and passed explicitly to the
// components that depend on it.
type Environment struct {
	IsLocalBuild  bool
	CIServer      string
	Configuration Configuration
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// DetectEnvironment determines local-vs-CI and the default configuration:
// Debug for local builds, Release on CI servers.
func DetectEnvironment(lookup LookupFunc) Environment {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	env := Environment{IsLocalBuild: true, Configuration: Debug}
	for _, v := range ciVariables {
		val, ok := lookup(v.env)
		if !ok || val == "" || strings.EqualFold(val, "false") || val == "0" {
			continue
		}
		env.IsLocalBuild = false
		env.CIServer = v.server
		env.Configuration = Release
		break
	}
	return env
}

// WithConfiguration returns a copy using the given configuration; an empty
// value keeps the detected default.
func (e Environment) WithConfiguration(c Configuration) Environment {
	if c != "" {
		e.Configuration = c
	}
	return e
}
