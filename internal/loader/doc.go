// Package loader implements the content loader backends and the Chain that
// dispatches between them by URI scheme.
//
// Backends:
//   - FSLoader for file: (local filesystem) and classpath: (embedded resources)
//   - JarLoader for jar:file:///bundle.zip!/inner/path
//   - HTTPLoader for http: and https:
//
// Every backend reports absence as found=false (or an empty listing) and
// reserves errors for failures, which wrap pgfleet.ErrLoaderFailure.
package loader
