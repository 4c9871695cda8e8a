package source

import "errors"

// ErrAgain marks a transient condition the caller should retry: a
// suspended engine, a reconnect mid-flight, or a high-water disconnect
// awaiting the next in-window read.
var ErrAgain = errors.New("source: temporarily unavailable")

// ErrUnsupported and ErrBrokenPipe mark conditions where retrying is
// pointless; an implementation should wrap one of these (via
// fmt.Errorf("...: %w", ...)) so errors.Is still matches.
var (
	ErrUnsupported = errors.New("source: operation unsupported by upstream")
	ErrBrokenPipe  = errors.New("source: broken pipe")
)

// Kind classifies the engine's latched final status.
type Kind int

const (
	KindOK Kind = iota
	KindEOF
	KindRetryableTransport
	KindPermanentTransport
	KindPaused
)

// Status is the engine's terminal/transient outcome vocabulary (spec.md
// §7). It is also what ReconnectAtOffset returns, so the engine can
// classify a failed reconnect the same way it classifies a failed read.
type Status struct {
	Kind Kind
	Err  error
}

func OK() Status                   { return Status{Kind: KindOK} }
func EOF() Status                  { return Status{Kind: KindEOF} }
func Retryable(err error) Status   { return Status{Kind: KindRetryableTransport, Err: err} }
func Permanent(err error) Status   { return Status{Kind: KindPermanentTransport, Err: err} }
func Paused() Status               { return Status{Kind: KindPaused} }

func (s Status) IsOK() bool { return s.Kind == KindOK }

// IsPermanent reports whether retries should be abandoned immediately:
// either the status itself is a permanent transport failure, or the
// underlying error is one of the "no point retrying" sentinels.
func (s Status) IsPermanent() bool {
	if s.Kind == KindPermanentTransport {
		return true
	}
	return IsPermanentErr(s.Err)
}

// IsPermanentErr reports whether err is one of the sentinels that should
// immediately latch retries_left = 0 rather than be retried.
func IsPermanentErr(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrUnsupported) || errors.Is(err, ErrBrokenPipe)
}
