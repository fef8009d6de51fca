// Package manifest reads the YAML frontmatter of SKILL.md definition files
// and validates it against the embedded JSON schema.
package manifest
