package git

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// Reference identifies a remote repository and where its clone lives.
type Reference struct {
	// URL is the location handed to the clone operation.
	URL string
	// Host is empty for local repositories.
	Host string
	// Identifier is the repository path without ".git", e.g. "owner/repo".
	Identifier string
	Branch     string
}

// ParseReference parses https, ssh (both URL and scp-like forms), file URLs
// and local paths.
func ParseReference(raw string) (Reference, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Reference{}, fmt.Errorf("empty repository url")
	}

	// scp-like syntax: git@github.com:owner/repo.git
	if !strings.Contains(raw, "://") {
		if at := strings.Index(raw, "@"); at >= 0 {
			if colon := strings.Index(raw[at:], ":"); colon > 0 {
				host := raw[at+1 : at+colon]
				return newReference(raw, host, raw[at+colon+1:])
			}
		}
		// Local path.
		return newReference(raw, "", filepath.Base(filepath.Clean(raw)))
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Reference{}, fmt.Errorf("invalid repository url %q: %w", raw, err)
	}
	switch u.Scheme {
	case "https", "http", "ssh", "git":
		return newReference(raw, u.Hostname(), u.Path)
	case "file":
		return newReference(raw, "", path.Base(u.Path))
	default:
		return Reference{}, fmt.Errorf("unsupported repository url scheme %q", u.Scheme)
	}
}

func newReference(raw, host, repoPath string) (Reference, error) {
	id := strings.Trim(strings.TrimSuffix(strings.Trim(repoPath, "/"), ".git"), "/")
	if id == "" || id == "." {
		return Reference{}, fmt.Errorf("repository url %q has no repository path", raw)
	}
	// The identifier becomes a directory below the staging root.
	for _, segment := range strings.Split(id, "/") {
		if segment == "." || segment == ".." || segment == "" || strings.Contains(segment, `\`) {
			return Reference{}, fmt.Errorf("repository url %q has an invalid path segment %q", raw, segment)
		}
	}
	return Reference{URL: raw, Host: host, Identifier: id}, nil
}

// IsLocal reports whether the reference points at a local repository.
func (r Reference) IsLocal() bool { return r.Host == "" }

// HTTPSURL returns the https clone URL of a remote reference, or URL for
// local ones.
func (r Reference) HTTPSURL() string {
	if r.IsLocal() {
		return r.URL
	}
	return "https://" + r.Host + "/" + r.Identifier + ".git"
}

// LocalPath returns the clone directory of the reference below base.
func (r Reference) LocalPath(base string) string {
	return filepath.Join(base, filepath.FromSlash(r.Identifier))
}

func (r Reference) String() string { return r.Identifier }
