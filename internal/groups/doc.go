// Package groups keeps named sets of skills and plans which skills to enable
// or disable when a group is switched on or off. Planning is pure: callers
// apply the returned plan with the linker and re-scan afterwards.
package groups
