package fs

import (
	"io/fs"
	"os"
	"path/filepath"
)

// FS is a directory tree that remembers where it is rooted on disk, so entries
// read through it can be turned back into host paths.
type FS interface {
	fs.ReadDirFS
	RootDir() string
	Join(name string) string
}

var _ FS = (*rootDirFS)(nil)

func New(entry string) FS {
	return &rootDirFS{entry: entry, FS: os.DirFS(entry)}
}

// Wrap roots an arbitrary file system at entry.
func Wrap(fsys fs.FS, entry string) FS {
	return &rootDirFS{entry: entry, FS: fsys}
}

type rootDirFS struct {
	fs.FS
	entry string
}

func (r rootDirFS) RootDir() string {
	return r.entry
}

func (r rootDirFS) ReadDir(name string) ([]fs.DirEntry, error) {
	return fs.ReadDir(r.FS, name)
}

func (r rootDirFS) Join(name string) string {
	return filepath.Join(r.entry, filepath.FromSlash(name))
}
