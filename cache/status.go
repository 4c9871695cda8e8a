package cache

import (
	"errors"
	"io"

	"stream_cache/source"
)

// mapUpstreamErr classifies a raw error returned from Source.ReadAt into
// the engine's finalStatus vocabulary (spec.md §7). io.EOF is handled by
// the caller before this is reached; this only sees non-EOF errors.
func mapUpstreamErr(err error) source.Status {
	if errors.Is(err, source.ErrAgain) {
		return source.Retryable(err)
	}
	if source.IsPermanentErr(err) {
		return source.Permanent(err)
	}
	return source.Retryable(err)
}

// isEOFErr reports whether err signals upstream exhaustion the way
// io.Read does, bare or wrapped.
func isEOFErr(err error) bool {
	return err != nil && errors.Is(err, io.EOF)
}
