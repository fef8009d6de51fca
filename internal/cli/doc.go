// Package cli defines the Cobra command tree for the skillctl CLI. Each file
// in this package registers one top-level command (list, install, group, etc.)
// with the root command. Command implementations delegate to internal packages
// for business logic and only handle flag parsing, I/O formatting, and persistence.
package cli
