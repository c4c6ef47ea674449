package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/vvka-141/pgfleet/internal/files/filesystem"
	"github.com/vvka-141/pgfleet/pkg/pgfleet"
)

const (
	SchemeFile      = "file"
	SchemeClasspath = "classpath"
)

// FSLoader serves one scheme from a filesystem provider. The URI path is
// used as the provider path.
type FSLoader struct {
	scheme   string
	provider filesystem.FileSystemProvider
}

// NewFileLoader serves file: URIs from provider, normally the OS filesystem.
// Both file:relative/dir and file:///absolute/dir are understood.
func NewFileLoader(provider filesystem.FileSystemProvider) *FSLoader {
	return &FSLoader{scheme: SchemeFile, provider: provider}
}

// NewClasspathLoader serves classpath: URIs from fsys, rooted at its top.
func NewClasspathLoader(fsys fs.FS) *FSLoader {
	return &FSLoader{scheme: SchemeClasspath, provider: filesystem.NewFSFileSystem(fsys, ".")}
}

func (l *FSLoader) Accepts(uri pgfleet.ContentURI) bool {
	return uri.Scheme() == l.scheme
}

func (l *FSLoader) Load(ctx context.Context, uri pgfleet.ContentURI) (string, bool, error) {
	data, err := l.provider.ReadFile(uri.Path())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("load %s: %v: %w", uri, err, pgfleet.ErrLoaderFailure)
	}
	return string(data), true, nil
}

func (l *FSLoader) ListFolder(ctx context.Context, folder pgfleet.ContentURI, pattern string) ([]pgfleet.ContentURI, error) {
	p, err := compilePattern(pattern)
	if err != nil {
		return nil, err
	}
	folder = folder.WithTrailingSlash()

	infos, err := l.provider.ReadDir(folder.Path())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list %s: %v: %w", folder, err, pgfleet.ErrLoaderFailure)
	}

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name())
	}
	return p.children(folder, names), nil
}

var _ pgfleet.ContentLoader = (*FSLoader)(nil)
