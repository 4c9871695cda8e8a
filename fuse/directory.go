package fuse

import (
	"context"
	"os"
	"syscall"

	"github.com/anacrolix/fuse"
	"github.com/anacrolix/fuse/fs"

	"stream_cache/vfs"
)

var _ fs.Node = &DirectoryNode{}
var _ fs.NodeStringLookuper = &DirectoryNode{}
var _ fs.HandleReadDirAller = &DirectoryNode{}

type DirectoryNode struct {
	directory *vfs.Directory
}

func NewDirectoryNode(directory *vfs.Directory) *DirectoryNode {
	return &DirectoryNode{directory: directory}
}

func (node *DirectoryNode) Attr(ctx context.Context, attr *fuse.Attr) error {
	attr.Inode = node.directory.GetIdentifier()
	attr.Mode = os.ModeDir | 0555
	return nil
}

func (node *DirectoryNode) Lookup(ctx context.Context, name string) (fs.Node, error) {
	if file := node.directory.FindFile(name); file != nil {
		return NewFileNode(file), nil
	}

	if directory := node.directory.FindDirectory(name); directory != nil {
		return NewDirectoryNode(directory), nil
	}

	return nil, syscall.ENOENT
}

func (node *DirectoryNode) ReadDirAll(ctx context.Context) ([]fuse.Dirent, error) {
	var entries []fuse.Dirent

	for _, file := range node.directory.ListFiles() {
		entries = append(entries, fuse.Dirent{
			Inode: file.GetIdentifier(),
			Name:  file.GetName(),
			Type:  fuse.DT_File,
		})
	}

	for _, directory := range node.directory.ListDirectories() {
		entries = append(entries, fuse.Dirent{
			Inode: directory.GetIdentifier(),
			Name:  directory.GetName(),
			Type:  fuse.DT_Dir,
		})
	}

	return entries, nil
}
