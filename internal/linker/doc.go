// Package linker applies install, uninstall, enable and disable actions to a
// skill across every configured target directory. Installs are symlinks back
// to the skill source; disabled links are parked under <target>/.disabled.
package linker
