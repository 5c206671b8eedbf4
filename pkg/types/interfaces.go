package types

import (
	"io/fs"
)

// FS is the filesystem interface required for thoughts operations
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Link operations
	Symlink(oldname, newname string) error
	Readlink(name string) (string, error)
	Link(oldname, newname string) error

	// Other operations
	Remove(name string) error
	RemoveAll(path string) error
	Rename(oldpath, newpath string) error
	Lstat(name string) (fs.FileInfo, error)

	// SameFile reports whether two FileInfos describe the same file
	// (same inode on the same device for the OS implementation).
	SameFile(a, b fs.FileInfo) bool
}
