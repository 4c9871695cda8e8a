package config

import "net/http"

// CacheConfigHeader and DisconnectAtHighWatermarkHeader are the request
// headers spec.md §6.3 lets a caller use to override cache tuning
// per-stream; ScrubCacheHeaders removes both before the request is
// forwarded anywhere else, the way an edge proxy strips
// implementation-private headers before passing a request along.
const (
	CacheConfigHeader              = "x-cache-config"
	DisconnectAtHighWatermarkHeader = "x-disconnect-at-highwatermark"
)

// ExtractCacheHeaders reads and removes the cache tuning headers from h,
// returning the raw values a caller can feed to ResolveCacheParams.
func ExtractCacheHeaders(h http.Header) (cacheConfig string, disconnectAtHi bool) {
	cacheConfig = h.Get(CacheConfigHeader)
	disconnectAtHi = h.Get(DisconnectAtHighWatermarkHeader) == "1"
	ScrubCacheHeaders(h)
	return cacheConfig, disconnectAtHi
}

func ScrubCacheHeaders(h http.Header) {
	h.Del(CacheConfigHeader)
	h.Del(DisconnectAtHighWatermarkHeader)
}
