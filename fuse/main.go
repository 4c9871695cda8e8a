package fuse

import (
	"fmt"

	"github.com/anacrolix/fuse"
	anacrolixfs "github.com/anacrolix/fuse/fs"

	"stream_cache/vfs"
)

// Mount blocks serving virtual at mountpoint until the connection is
// closed (typically by an unmount). Grounded on the teacher's
// fuse/service and fuse/filesystem wiring, collapsed into one call
// since stream_cache runs everything in a single process.
func Mount(mountpoint string, virtual *vfs.FileSystem) error {
	connection, err := fuse.Mount(
		mountpoint,
		fuse.FSName("stream_cache"),
		fuse.Subtype("stream_cache"),
		fuse.ReadOnly(),
		fuse.AllowOther(),
	)
	if err != nil {
		return fmt.Errorf("fuse: mount %s: %w", mountpoint, err)
	}
	defer connection.Close()

	<-connection.Ready
	if err := connection.MountError; err != nil {
		return fmt.Errorf("fuse: mount error: %w", err)
	}

	fileSystem := NewFileSystem(virtual)

	if err := anacrolixfs.Serve(connection, fileSystem); err != nil {
		return fmt.Errorf("fuse: serve %s: %w", mountpoint, err)
	}

	return nil
}
