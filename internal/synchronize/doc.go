// Package synchronize rebases the checked-out branch onto its remote counterpart and
// pushes it with its tags, setting uncommitted work aside for the duration.
package synchronize
