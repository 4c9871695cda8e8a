package vfs

import (
	"net/http"
	"testing"

	"stream_cache/config"
)

func TestResolveCreatesIntermediateDirectories(t *testing.T) {
	fs := NewFileSystem()

	file, err := fs.Resolve(AddFileRequest{
		Path:     "/Show/Season 01/episode.mkv",
		VideoUrl: "http://example.invalid/episode.mkv",
		Size:     1024,
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if file.GetName() != "episode.mkv" {
		t.Fatalf("unexpected file name %q", file.GetName())
	}

	season := fs.Root.FindDirectory("Show").FindDirectory("Season 01")
	if season == nil {
		t.Fatalf("expected intermediate directories to be created")
	}
	if season.FindFile("episode.mkv") != file {
		t.Fatalf("expected file registered under its parent directory")
	}
}

func TestResolveReusesExistingDirectory(t *testing.T) {
	fs := NewFileSystem()

	if _, err := fs.Resolve(AddFileRequest{Path: "/Show/a.mkv", VideoUrl: "http://x", Size: 1}); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if _, err := fs.Resolve(AddFileRequest{Path: "/Show/b.mkv", VideoUrl: "http://y", Size: 1}); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	shows := fs.Root.ListDirectories()
	if len(shows) != 1 {
		t.Fatalf("expected one Show directory, got %d", len(shows))
	}
	if len(shows[0].ListFiles()) != 2 {
		t.Fatalf("expected two files under Show, got %d", len(shows[0].ListFiles()))
	}
}

func TestResolveAppliesCacheHeaderOverride(t *testing.T) {
	fs := NewFileSystem()

	headers := make(http.Header)
	headers.Set(config.CacheConfigHeader, "1000/10000/500")

	file, err := fs.Resolve(AddFileRequest{
		Path:     "/movie.mkv",
		VideoUrl: "http://example.invalid/movie.mkv",
		Size:     1,
		Headers:  headers,
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !file.hasCacheParams {
		t.Fatalf("expected the cache header to produce a per-file override")
	}
	if file.cacheParams.LoWater != 1000*1024 || file.cacheParams.HiWater != 10000*1024 {
		t.Fatalf("unexpected override params: %+v", file.cacheParams)
	}
	if headers.Get(config.CacheConfigHeader) != "" {
		t.Fatalf("expected the cache header to be scrubbed after extraction")
	}
}

func TestIDCountIncrementsPerNode(t *testing.T) {
	fs := NewFileSystem()
	before := fs.IDCount()

	if _, err := fs.Resolve(AddFileRequest{Path: "/a/b.mkv", VideoUrl: "http://x", Size: 1}); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if fs.IDCount() <= before {
		t.Fatalf("expected IDCount to increase, before=%d after=%d", before, fs.IDCount())
	}
}
