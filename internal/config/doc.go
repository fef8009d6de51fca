// Package config manages user-level settings stored at ~/.skillctl/config.yaml.
// It holds the ordered source and target lists, the group catalog with its
// active groups, and log settings, and converts entries into registry types.
package config
