// Package classify detects file content types from their bytes.
package classify
