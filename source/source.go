// Package source defines the upstream byte-source contract the cache
// engine fetches from. The engine never inspects bytes, only shuttles
// them; everything domain-specific (HTTP, DRM, proxy negotiation) lives
// behind this interface.
package source

// Flags describes capabilities/hints the upstream exposes to the engine
// and, after masking, to the engine's own consumer.
type Flags uint32

const (
	FlagWantsPrefetching Flags = 1 << iota
	FlagIsHTTP
	FlagIsCaching
)

func (f Flags) Has(flag Flags) bool {
	return f&flag != 0
}

// Source is a random-access upstream byte source. Implementations must
// be safe to call Disconnect concurrently with an in-flight ReadAt or
// ReconnectAtOffset from another goroutine; Disconnect is the mechanism
// by which a blocking call is aborted.
type Source interface {
	// ReadAt copies up to len(buf) bytes starting at offset into buf and
	// returns how many bytes were copied. It returns io.EOF (wrapped or
	// bare) once no further bytes are, or ever will be, available. It may
	// block for a long time and may be cancelled by a concurrent
	// Disconnect; it must never be called while the engine's lock is
	// held.
	ReadAt(offset int64, buf []byte) (int, error)

	// ReconnectAtOffset (re)establishes the upstream connection so the
	// next ReadAt will resume at offset. queryAndSetProxy is an in/out
	// flag: the caller sets it to request proxy renegotiation, the
	// implementation clears or leaves it set to report whether
	// renegotiation actually happened.
	ReconnectAtOffset(offset int64, queryAndSetProxy *bool) Status

	// Disconnect tears down any live connection. Idempotent.
	Disconnect()

	// Size returns the total upstream size, if known.
	Size() (int64, bool)

	Flags() Flags
	IsHTTP() bool

	URI() string
	MimeType() string
	DrmInit(mimeType string) error
	DrmInfo() (handle []byte, cryptoScheme string, err error)

	// EstimatedBandwidthKbps is only meaningful (and only called) when
	// IsHTTP() is true.
	EstimatedBandwidthKbps() (int64, bool)
}
