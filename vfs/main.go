// Package vfs is the virtual filesystem tree FUSE mounts against: a
// root Directory, lazily-populated File nodes backed by a remote URL,
// and the index bookkeeping behind name/inode lookups. Authored fresh
// from the index-based generation of the teacher's vfs package (see
// DESIGN.md) rather than grafted onto one of the other, mutually
// incompatible generations also present in the retrieved tree.
package vfs

import (
	"fmt"
	"net/http"
	"strings"

	"stream_cache/config"
	"stream_cache/logger"
	"stream_cache/metrics"
	"stream_cache/vfs/counter"
)

type FileSystem struct {
	Root *Directory

	idCounter *counter.Instance
	index     *Index

	CacheParams     config.CacheParams
	LoggerFactory   logger.Factory
	MetricsRegistry *metrics.Registry
}

func NewFileSystem() *FileSystem {
	fileSystem := &FileSystem{
		idCounter:   counter.NewCounter(),
		index:       newIndex(),
		CacheParams: config.CacheParams{LoWater: config.DefaultLoWaterBytes, HiWater: config.DefaultHiWaterBytes, KeepAlive: config.DefaultKeepAlivePeriod},
	}
	fileSystem.Root = fileSystem.newDirectory(nil, "root")
	return fileSystem
}

func (fileSystem *FileSystem) nextID() uint64 {
	return fileSystem.idCounter.Add(1)
}

// IDCount reports how many inodes have been allocated so far, exposed
// for the metrics/chart layer the way the teacher surfaced its own
// running counters.
func (fileSystem *FileSystem) IDCount() uint64 {
	return fileSystem.idCounter.Get()
}

func (fileSystem *FileSystem) newDirectory(parent *Directory, name string) *Directory {
	directory := &Directory{
		identifier: fileSystem.nextID(),
		name:       name,
		parent:     parent,
		index:      newIndex(),
		fileSystem: fileSystem,
	}

	fileSystem.index.registerDirectory(directory)
	if parent != nil {
		parent.index.registerDirectory(directory)
	}

	return directory
}

// AddDirectory creates name under parent, or under the root if parent
// is nil.
func (fileSystem *FileSystem) AddDirectory(parent *Directory, name string) (*Directory, error) {
	if parent == nil {
		parent = fileSystem.Root
	}
	if existing := parent.FindDirectory(name); existing != nil {
		return existing, nil
	}
	return fileSystem.newDirectory(parent, name), nil
}

// AddFile creates a leaf file under parent serving videoUrl.
func (fileSystem *FileSystem) AddFile(parent *Directory, name, videoUrl string, size uint64) (*File, error) {
	return fileSystem.addFile(parent, name, videoUrl, size, nil)
}

func (fileSystem *FileSystem) addFile(parent *Directory, name, videoUrl string, size uint64, headers http.Header) (*File, error) {
	if parent == nil {
		parent = fileSystem.Root
	}

	file := &File{
		identifier: fileSystem.nextID(),
		name:       name,
		videoUrl:   videoUrl,
		size:       size,
		parent:     parent,
		fileSystem: fileSystem,
	}

	if headers != nil {
		if cacheConfig, disconnectAtHi := config.ExtractCacheHeaders(headers); cacheConfig != "" {
			if params, err := config.ParseCacheParams(cacheConfig); err == nil {
				file.cacheParams = params
				file.disconnectAtHi = disconnectAtHi
				file.hasCacheParams = true
			}
		}
	}

	fileSystem.index.registerFile(file)
	parent.index.registerFile(file)

	return file, nil
}

// AddFileRequest describes one file for Resolve to add. app/main.go
// builds one per catalog entry and resolves them all before mounting,
// the way the teacher's app.Start loop fed debrid catalog entries in
// one at a time. Headers, if set,
// carries a per-stream x-cache-config/x-disconnect-at-highwatermark
// override (spec.md §6.3) that Resolve extracts before the file is
// ever opened; the headers themselves never reach source/httpsource.
type AddFileRequest struct {
	Path     string
	VideoUrl string
	Size     uint64
	Headers  http.Header
}

// Resolve walks (creating as needed) the directory components of path
// and adds the final component as a file.
func (fileSystem *FileSystem) Resolve(req AddFileRequest) (*File, error) {
	components := strings.Split(strings.Trim(req.Path, "/"), "/")
	if len(components) == 0 {
		return nil, fmt.Errorf("vfs: empty path")
	}

	dir := fileSystem.Root
	for _, name := range components[:len(components)-1] {
		next, err := fileSystem.AddDirectory(dir, name)
		if err != nil {
			return nil, err
		}
		dir = next
	}

	return fileSystem.addFile(dir, components[len(components)-1], req.VideoUrl, req.Size, req.Headers)
}

// Close tears down every open file handle (and therefore every
// cache.Engine) in the tree.
func (fileSystem *FileSystem) Close() {
	fileSystem.index.close()
}
