// Package filesystem provides the filesystem abstraction used by the
// content loaders.
//
// Implementations:
//   - OSFileSystem: the local filesystem (file: URIs)
//   - FSFileSystem: any fs.FS, such as embed.FS, fstest.MapFS or a zip archive
//     (classpath: and jar: URIs)
//
// Missing paths are reported with errors matching fs.ErrNotExist so callers
// can distinguish absence from failure.
package filesystem
