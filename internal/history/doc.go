// Package history reads commit history straight from the object store with go-git,
// without spawning git, to back the log and stats commands.
package history
