// Package solution reads the project list of a Visual Studio solution file.
package solution

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// SolutionFolderType is the project type GUID of solution folders, which are
// not projects.
const SolutionFolderType = "2150E333-8FDC-42A3-9474-1A3956D46DE8"

// Project is one project entry of a solution.
type Project struct {
	Name     string
	Path     string
	TypeGUID string
	GUID     string
}

// Solution is a parsed solution file.
type Solution struct {
	Path     string
	Projects []Project
}

// Project("{TYPE}") = "Name", "relative\path.csproj", "{GUID}"
var projectLine = regexp.MustCompile(`^Project\("\{([0-9A-Fa-f-]+)\}"\)\s*=\s*"([^"]*)",\s*"([^"]*)",\s*"\{([0-9A-Fa-f-]+)\}"`)

// Parse reads the solution file at path.
func Parse(path string) (*Solution, error) {
	f, err := os.Open(path) // #nosec G304 -- path comes from build configuration
	if err != nil {
		return nil, fmt.Errorf("open solution: %w", err)
	}
	defer func() { _ = f.Close() }()

	sln := &Solution{Path: path}
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\uFEFF")
		}
		if !strings.HasPrefix(line, "Project(") {
			continue
		}
		m := projectLine.FindStringSubmatch(line)
		if m == nil {
			return nil, fmt.Errorf("%s:%d: malformed project entry", path, lineNo)
		}
		typeGUID := strings.ToUpper(m[1])
		if typeGUID == SolutionFolderType {
			continue
		}
		sln.Projects = append(sln.Projects, Project{
			Name:     m[2],
			Path:     filepath.FromSlash(strings.ReplaceAll(m[3], `\`, "/")),
			TypeGUID: typeGUID,
			GUID:     strings.ToUpper(m[4]),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read solution: %w", err)
	}
	return sln, nil
}
