// Package platform provides the filesystem primitives the registry relies on:
// symlink creation and removal, link resolution, lstat-based existence checks
// and rename-based moves. Every mutation is a single OS-level call.
package platform
