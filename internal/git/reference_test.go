package git

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseReference(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		host       string
		identifier string
		https      string
	}{
		{"https", "https://github.com/teroneko/Teronis.DotNet.git", "github.com", "teroneko/Teronis.DotNet", "https://github.com/teroneko/Teronis.DotNet.git"},
		{"https without suffix", "https://github.com/teroneko/Teronis.DotNet", "github.com", "teroneko/Teronis.DotNet", "https://github.com/teroneko/Teronis.DotNet.git"},
		{"scp-like ssh", "git@github.com:teroneko/Teronis.DotNet.git", "github.com", "teroneko/Teronis.DotNet", "https://github.com/teroneko/Teronis.DotNet.git"},
		{"ssh url with port", "ssh://git@git.example.com:2222/group/sub/repo.git", "git.example.com", "group/sub/repo", "https://git.example.com/group/sub/repo.git"},
		{"file url", "file:///srv/git/docs.git", "", "docs", "file:///srv/git/docs.git"},
		{"local path", "/srv/git/docs", "", "docs", "/srv/git/docs"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ref, err := ParseReference(tc.raw)
			require.NoError(t, err)
			require.Equal(t, tc.raw, ref.URL)
			require.Equal(t, tc.host, ref.Host)
			require.Equal(t, tc.identifier, ref.Identifier)
			require.Equal(t, tc.https, ref.HTTPSURL())
			require.Equal(t, tc.host == "", ref.IsLocal())
		})
	}
}

func TestParseReference_Invalid(t *testing.T) {
	for _, raw := range []string{"", "   ", "ftp://example.com/repo.git", "https://github.com/", "https://github.com/.git",
		"https://github.com/../../x.git", "git@github.com:owner/../../x.git", "ssh://host/a/./b.git",
		"https://github.com/owner//repo.git", "..", "https://github.com/owner/..\\..\\x.git"} {
		_, err := ParseReference(raw)
		require.Error(t, err, raw)
	}
}

func TestReference_LocalPath(t *testing.T) {
	ref, err := ParseReference("https://github.com/teroneko/Teronis.DotNet.git")
	require.NoError(t, err)
	require.Equal(t, filepath.Join("obj", "teroneko", "Teronis.DotNet"), ref.LocalPath("obj"))
	require.Equal(t, "teroneko/Teronis.DotNet", ref.String())
}
