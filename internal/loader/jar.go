package loader

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"

	"github.com/vvka-141/pgfleet/internal/files/filesystem"
	"github.com/vvka-141/pgfleet/pkg/pgfleet"
)

const SchemeJar = "jar"

// JarLoader serves entries of zip archives addressed as
// jar:file:///path/bundle.zip!/inner/path. The archive is opened per call
// and closed before returning.
type JarLoader struct{}

// NewJarLoader creates a JarLoader.
func NewJarLoader() *JarLoader {
	return &JarLoader{}
}

func (l *JarLoader) Accepts(uri pgfleet.ContentURI) bool {
	return uri.Scheme() == SchemeJar
}

// splitJarURI returns the archive's filesystem path and the entry path.
func splitJarURI(uri pgfleet.ContentURI) (archive, entry string, err error) {
	if uri.Scheme() != SchemeJar {
		return "", "", fmt.Errorf("not a jar URI: %s: %w", uri, pgfleet.ErrLoaderFailure)
	}
	rest := string(uri)[len(SchemeJar)+1:]
	archiveURI, entry, ok := strings.Cut(rest, "!")
	if !ok {
		return "", "", fmt.Errorf("jar URI %s has no '!' separator: %w", uri, pgfleet.ErrLoaderFailure)
	}
	inner := pgfleet.ContentURI(archiveURI)
	if inner.Scheme() != SchemeFile {
		return "", "", fmt.Errorf("jar URI %s must wrap a file: URI: %w", uri, pgfleet.ErrLoaderFailure)
	}
	entry, err = url.PathUnescape(entry)
	if err != nil {
		return "", "", fmt.Errorf("jar URI %s: %v: %w", uri, err, pgfleet.ErrLoaderFailure)
	}
	return inner.Path(), entry, nil
}

// withArchive opens the archive named by uri and runs fn against it. A
// missing archive reports found=false without calling fn.
func (l *JarLoader) withArchive(uri pgfleet.ContentURI, fn func(p *filesystem.FSFileSystem, entry string) error) (bool, error) {
	archive, entry, err := splitJarURI(uri)
	if err != nil {
		return false, err
	}
	rc, err := zip.OpenReader(archive)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("open archive %s: %v: %w", archive, err, pgfleet.ErrLoaderFailure)
	}
	defer rc.Close()
	return true, fn(filesystem.NewFSFileSystem(rc, "."), entry)
}

func (l *JarLoader) Load(ctx context.Context, uri pgfleet.ContentURI) (string, bool, error) {
	var content string
	found, err := l.withArchive(uri, func(p *filesystem.FSFileSystem, entry string) error {
		data, err := p.ReadFile(entry)
		if err != nil {
			return err
		}
		content = string(data)
		return nil
	})
	switch {
	case err == nil:
		return content, found, nil
	case errors.Is(err, fs.ErrNotExist):
		return "", false, nil
	case errors.Is(err, pgfleet.ErrLoaderFailure):
		return "", false, err
	default:
		return "", false, fmt.Errorf("load %s: %v: %w", uri, err, pgfleet.ErrLoaderFailure)
	}
}

func (l *JarLoader) ListFolder(ctx context.Context, folder pgfleet.ContentURI, pattern string) ([]pgfleet.ContentURI, error) {
	p, err := compilePattern(pattern)
	if err != nil {
		return nil, err
	}
	folder = folder.WithTrailingSlash()

	var names []string
	_, err = l.withArchive(folder, func(fsys *filesystem.FSFileSystem, entry string) error {
		infos, err := fsys.ReadDir(entry)
		if err != nil {
			return err
		}
		for _, info := range infos {
			names = append(names, info.Name())
		}
		return nil
	})
	switch {
	case err == nil:
		return p.children(folder, names), nil
	case errors.Is(err, fs.ErrNotExist):
		return nil, nil
	case errors.Is(err, pgfleet.ErrLoaderFailure):
		return nil, err
	default:
		return nil, fmt.Errorf("list %s: %v: %w", folder, err, pgfleet.ErrLoaderFailure)
	}
}

var _ pgfleet.ContentLoader = (*JarLoader)(nil)
