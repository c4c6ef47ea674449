// Package services runs pgfleet operations. A Workspace holds everything
// resolved once per invocation (settings, loader chain, configuration stack
// and the resolvers built on it); a Service runs one operation across the
// selected targets, sequentially.
//
// Fatal errors (configuration, target selection, plan resolution, missing
// permission) are returned before any target is touched. Failures of a
// single target are logged as warnings and the loop continues.
package services
