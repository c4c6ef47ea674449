// Package scaffold creates a starter pgfleet project: settings, an example
// .env, a development manifest and one migration unit.
package scaffold

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/vvka-141/pgfleet/internal/logging"
	"github.com/vvka-141/pgfleet/pkg/pgfleet"
)

//go:embed all:templates
var templatesFS embed.FS

const templateRoot = "templates/fleet"

// namePattern keeps the project name usable as a manifest key segment and
// as a PostgreSQL identifier without quoting.
var namePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Scaffolder writes the embedded project template to disk.
type Scaffolder struct {
	logger pgfleet.Logger
	fsys   fs.FS
}

// NewScaffolder creates a Scaffolder. A nil logger discards output.
func NewScaffolder(logger pgfleet.Logger) *Scaffolder {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	sub, err := fs.Sub(templatesFS, templateRoot)
	if err != nil {
		panic(fmt.Sprintf("embedded templates: %v", err))
	}
	return &Scaffolder{logger: logger, fsys: sub}
}

// CreateProject writes the template into dir, which must be empty or
// absent, naming the first target after name. It returns the created files
// relative to dir.
func (s *Scaffolder) CreateProject(name, dir string) ([]string, error) {
	if !namePattern.MatchString(name) {
		return nil, fmt.Errorf("project name %q must match %s: %w", name, namePattern, pgfleet.ErrInvalidConfig)
	}
	empty, err := isDirectoryEmpty(dir)
	if err != nil {
		return nil, err
	}
	if !empty {
		return nil, fmt.Errorf("directory %s is not empty, choose a new location: %w", dir, pgfleet.ErrInvalidConfig)
	}

	var created []string
	err = fs.WalkDir(s.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || p == "." {
			return err
		}
		target := filepath.Join(dir, filepath.FromSlash(p))
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		content, err := fs.ReadFile(s.fsys, p)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(target, []byte(render(string(content), name)), 0o644); err != nil {
			return err
		}
		s.logger.Verbose("Created %s", target)
		created = append(created, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("write project %s: %w", dir, err)
	}
	return created, nil
}

// Files lists the template files in walk order.
func (s *Scaffolder) Files() ([]string, error) {
	var files []string
	err := fs.WalkDir(s.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			files = append(files, path.Clean(p))
		}
		return err
	})
	return files, err
}

func render(content, name string) string {
	return strings.ReplaceAll(content, "{{NAME}}", name)
}

// isDirectoryEmpty reports whether path is an empty directory or absent.
func isDirectoryEmpty(path string) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("check directory: %w", err)
	}
	if !info.IsDir() {
		return false, fmt.Errorf("%s exists and is not a directory: %w", path, pgfleet.ErrInvalidConfig)
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return false, fmt.Errorf("read directory: %w", err)
	}
	return len(entries) == 0, nil
}
