// Package logs wraps logrus with package-level leveled helpers. Scanners and
// the action executor log swallowed I/O errors and filesystem mutations here;
// output goes to stderr, a rotating file, or both.
package logs
