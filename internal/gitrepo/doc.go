// Package gitrepo contains the gateway gitcare uses to interrogate and manipulate a Git working tree.
//
// RepositoryManager exposes status, history, branch, remote, and configuration queries alongside
// the mutating primitives (stage, commit, stash, reset, pull, push) used by the policy, synchronize,
// and undo services. Every operation addresses an explicit repository root and never depends on the
// process working directory. RepositoryLocker serializes mutating routines against a single root.
package gitrepo
