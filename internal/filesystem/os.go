// Package filesystem adapts operating system file primitives to the interfaces consumed by gitcare services.
package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"
)

// FileSystem exposes the filesystem operations gitcare services rely on.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	Lstat(path string) (fs.FileInfo, error)
	Chmod(path string, permissions fs.FileMode) error
	WalkDir(root string, walker fs.WalkDirFunc) error
}

// OSFileSystem implements FileSystem using the operating system primitives.
type OSFileSystem struct{}

// Stat retrieves file metadata, following symbolic links.
func (OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// Lstat retrieves file metadata without following symbolic links.
func (OSFileSystem) Lstat(path string) (fs.FileInfo, error) {
	return os.Lstat(path)
}

// Chmod replaces the permission bits of a path.
func (OSFileSystem) Chmod(path string, permissions fs.FileMode) error {
	return os.Chmod(path, permissions)
}

// WalkDir visits the tree rooted at root in lexical order.
func (OSFileSystem) WalkDir(root string, walker fs.WalkDirFunc) error {
	return filepath.WalkDir(root, walker)
}
