// Package fuse adapts vfs.FileSystem onto github.com/anacrolix/fuse's
// fs.FS/fs.Node contract. Authored fresh from the one coherent shape
// common to the retrieved tree's several fuse/ generations (see
// DESIGN.md): an atomic-ID Directory/File pair wrapped in a thin node
// type that forwards Attr/Lookup/ReadDirAll/Open/Read/Release into vfs.
package fuse

import (
	"stream_cache/vfs"

	"github.com/anacrolix/fuse/fs"
)

var _ fs.FS = &FileSystem{}

type FileSystem struct {
	vfs *vfs.FileSystem
}

func NewFileSystem(virtual *vfs.FileSystem) *FileSystem {
	return &FileSystem{vfs: virtual}
}

func (fileSystem *FileSystem) Root() (fs.Node, error) {
	return NewDirectoryNode(fileSystem.vfs.Root), nil
}
