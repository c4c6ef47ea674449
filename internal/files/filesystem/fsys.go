package filesystem

import (
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// FSFileSystem implements FileSystemProvider over an fs.FS.
// Paths may be absolute ("/sql/x.sql") or relative; both resolve against root.
type FSFileSystem struct {
	fsys fs.FS
	root string
}

// NewFSFileSystem wraps fsys. The root parameter names the subdirectory
// within fsys to treat as "/".
func NewFSFileSystem(fsys fs.FS, root string) *FSFileSystem {
	root = strings.Trim(path.Clean("/"+strings.ReplaceAll(root, "\\", "/")), "/")
	if root == "" {
		root = "."
	}
	return &FSFileSystem{fsys: fsys, root: root}
}

func (p *FSFileSystem) resolve(name string) (string, error) {
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.Trim(path.Clean("/"+name), "/")
	full := path.Join(p.root, name)
	if full == "" {
		full = "."
	}
	if !fs.ValidPath(full) {
		return "", &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	return full, nil
}

func (p *FSFileSystem) ReadFile(name string) ([]byte, error) {
	full, err := p.resolve(name)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(p.fsys, full)
}

func (p *FSFileSystem) ReadDir(name string) ([]FileInfo, error) {
	full, err := p.resolve(name)
	if err != nil {
		return nil, err
	}
	entries, err := fs.ReadDir(p.fsys, full)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}
	return entryInfos(entries)
}

func (p *FSFileSystem) Stat(name string) (FileInfo, error) {
	full, err := p.resolve(name)
	if err != nil {
		return nil, err
	}
	return fs.Stat(p.fsys, full)
}

func entryInfos(entries []fs.DirEntry) ([]FileInfo, error) {
	result := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to get file info for %s: %w", entry.Name(), err)
		}
		result = append(result, info)
	}
	return result, nil
}

var _ FileSystemProvider = (*FSFileSystem)(nil)
