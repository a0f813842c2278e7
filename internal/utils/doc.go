// Package utils holds configuration and logging helpers shared by the gitcare commands.
package utils
