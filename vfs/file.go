package vfs

import (
	"fmt"
	"sync"

	"stream_cache/cache"
	"stream_cache/config"
	"stream_cache/logger"
	"stream_cache/metrics"
	"stream_cache/source/httpsource"
)

// File is a leaf node backed by a remote direct-download URL. Reading
// it lazily opens one cache.Engine per PID — mirroring the teacher's
// per-PID sync.Map[*stream.Stream] in vfs/file.go — so two processes
// (or the same player reopening the file) each get their own
// independent read-ahead window instead of fighting over one cursor.
type File struct {
	identifier uint64
	name       string
	videoUrl   string
	size       uint64

	// cacheParams/hasCacheParams hold a per-file override extracted from
	// the x-cache-config/x-disconnect-at-highwatermark headers a caller
	// attached to the AddFileRequest that created this file; zero value
	// means fall back to fileSystem.CacheParams.
	cacheParams    config.CacheParams
	disconnectAtHi bool
	hasCacheParams bool

	parent     *Directory
	fileSystem *FileSystem

	mu      sync.Mutex
	engines map[uint32]*cache.Engine

	collectors map[uint32]*metrics.EngineCollector
}

func (file *File) GetIdentifier() uint64 { return file.identifier }
func (file *File) GetName() string       { return file.name }
func (file *File) GetSize() uint64       { return file.size }
func (file *File) GetParent() *Directory { return file.parent }

// Read serves one reader's request by routing to the cache.Engine
// opened for pid, lazily creating one (and its upstream
// source/httpsource.Source) on first access.
func (file *File) Read(p []byte, offset int64, pid uint32) (int, error) {
	engine, err := file.getEngine(pid)
	if err != nil {
		return 0, fmt.Errorf("vfs: get engine for pid %d: %w", pid, err)
	}

	return engine.ReadAt(offset, p)
}

func (file *File) getEngine(pid uint32) (*cache.Engine, error) {
	file.mu.Lock()
	defer file.mu.Unlock()

	if engine, ok := file.engines[pid]; ok {
		return engine, nil
	}

	upstream, err := httpsource.New(file.videoUrl)
	if err != nil {
		return nil, fmt.Errorf("vfs: open upstream for %s: %w", file.name, err)
	}

	var log logger.Logger
	if file.fileSystem.LoggerFactory != nil {
		if l, err := file.fileSystem.LoggerFactory.NewLogger(file.name); err == nil {
			log = l
		}
	}

	params := file.fileSystem.CacheParams
	disconnectAtHi := false
	if file.hasCacheParams {
		params = file.cacheParams
		disconnectAtHi = file.disconnectAtHi
	}
	engine := cache.NewEngine(upstream, cache.Options{
		LoWater:         params.LoWater,
		HiWater:         params.HiWater,
		KeepAlivePeriod: params.KeepAlive,
		DisconnectAtHi:  disconnectAtHi,
		Logger:          log,
	})

	if file.engines == nil {
		file.engines = make(map[uint32]*cache.Engine)
	}
	file.engines[pid] = engine

	if file.fileSystem.MetricsRegistry != nil {
		collector := metrics.NewEngineCollector(engine)
		file.fileSystem.MetricsRegistry.TrackEngine(collector)
		if file.collectors == nil {
			file.collectors = make(map[uint32]*metrics.EngineCollector)
		}
		file.collectors[pid] = collector
	}

	return engine, nil
}

// Close tears down every engine this file has opened, across every
// PID that has read from it.
func (file *File) Close() {
	file.mu.Lock()
	defer file.mu.Unlock()

	for pid, engine := range file.engines {
		engine.Close()
		if collector, ok := file.collectors[pid]; ok && file.fileSystem.MetricsRegistry != nil {
			file.fileSystem.MetricsRegistry.UntrackEngine(collector)
		}
	}
	file.engines = nil
	file.collectors = nil
}

// ReleasePid tears down just the engine opened for pid, the way a
// single player process closing its file handle shouldn't disturb
// another process still streaming the same file.
func (file *File) ReleasePid(pid uint32) {
	file.mu.Lock()
	defer file.mu.Unlock()

	engine, ok := file.engines[pid]
	if !ok {
		return
	}
	engine.Close()
	delete(file.engines, pid)

	if collector, ok := file.collectors[pid]; ok {
		if file.fileSystem.MetricsRegistry != nil {
			file.fileSystem.MetricsRegistry.UntrackEngine(collector)
		}
		delete(file.collectors, pid)
	}
}
