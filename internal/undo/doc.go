// Package undo moves the checked-out branch back by one commit while leaving the
// working tree and index as they were.
package undo
