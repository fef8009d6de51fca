// Package scaffold generates new skills from embedded templates. It powers
// the "skillctl new" command, producing a SKILL.md with valid frontmatter and,
// for the scripted template, a helper script the skill can call.
package scaffold
