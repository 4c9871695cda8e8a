package fuse

import (
	"context"
	"fmt"
	"sync"

	"github.com/anacrolix/fuse"
	"github.com/anacrolix/fuse/fs"

	"stream_cache/vfs"
)

var _ fs.Node = &FileNode{}
var _ fs.Handle = &FileNode{}
var _ fs.NodeOpener = &FileNode{}
var _ fs.HandleReader = &FileNode{}
var _ fs.HandleReleaser = &FileNode{}

type FileNode struct {
	file *vfs.File

	mu sync.RWMutex
}

func NewFileNode(file *vfs.File) *FileNode {
	return &FileNode{file: file}
}

func (node *FileNode) Attr(ctx context.Context, attr *fuse.Attr) error {
	node.mu.RLock()
	defer node.mu.RUnlock()

	attr.Inode = node.file.GetIdentifier()
	attr.Size = node.file.GetSize()
	attr.Mode = 0444

	return nil
}

func (node *FileNode) Open(ctx context.Context, req *fuse.OpenRequest, resp *fuse.OpenResponse) (fs.Handle, error) {
	resp.Flags |= fuse.OpenKeepCache
	return node, nil
}

func (node *FileNode) Read(ctx context.Context, req *fuse.ReadRequest, resp *fuse.ReadResponse) error {
	node.mu.RLock()
	defer node.mu.RUnlock()

	if req.Dir {
		return fmt.Errorf("fuse: read request is for a directory")
	}

	buffer := make([]byte, req.Size)
	n, err := node.file.Read(buffer, req.Offset, req.Pid)
	if err != nil {
		return fmt.Errorf("fuse: read %s: %w", node.file.GetName(), err)
	}

	resp.Data = buffer[:n]

	return nil
}

func (node *FileNode) Release(ctx context.Context, req *fuse.ReleaseRequest) error {
	node.mu.Lock()
	defer node.mu.Unlock()

	node.file.ReleasePid(req.Pid)

	return nil
}
