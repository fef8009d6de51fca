// Package registry discovers skills in source trees, scans target
// directories for linked installs, and reconciles the two into one Skill
// per definition with a status for every configured target.
//
// Identity between a target entry and a skill is established only through
// symlink resolution: an entry counts as an install when it is a symlink
// whose resolved path equals the skill's canonical source path.
package registry
