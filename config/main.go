// Package config parses the cache's lo/hi-water/keepalive tuning and
// the handful of process-wide toggles the teacher kept as flat
// constants in config/main.go, generalized to the parsed
// "lo/hi/keepalive" triplet of spec.md §6.2.
package config

import (
	"fmt"
	"time"
)

const (
	DefaultLoWaterBytes    = 2 * 1024 * 1024
	DefaultHiWaterBytes    = 20 * 1024 * 1024
	DefaultKeepAlivePeriod = 15 * time.Second
)

// Chart toggles the termdash debug dashboard (chart/main.go); off by
// default since it takes over the terminal.
var Chart = false

// CacheParams is the parsed form of a "lo/hi/keepalive" string.
type CacheParams struct {
	LoWater   int64
	HiWater   int64
	KeepAlive time.Duration
}

func defaultParams() CacheParams {
	return CacheParams{
		LoWater:   DefaultLoWaterBytes,
		HiWater:   DefaultHiWaterBytes,
		KeepAlive: DefaultKeepAlivePeriod,
	}
}

// ParseCacheParams parses a "lo/hi/keepalive" string per spec.md §6.2:
// lo and hi are in KiB (scaled ×1024 to get the byte watermarks) and
// keepalive is in seconds. A malformed string, or one where lo >= hi,
// reverts entirely to defaults rather than applying a partial override.
func ParseCacheParams(s string) (CacheParams, error) {
	if s == "" {
		return defaultParams(), nil
	}

	var lo, hi, keepAliveSec int64
	n, err := fmt.Sscanf(s, "%d/%d/%d", &lo, &hi, &keepAliveSec)
	if err != nil || n != 3 {
		return defaultParams(), fmt.Errorf("config: malformed cache params %q, using defaults: %w", s, err)
	}

	if lo <= 0 || hi <= 0 || lo >= hi {
		return defaultParams(), fmt.Errorf("config: invalid cache params %q (lo must be < hi), using defaults", s)
	}

	return CacheParams{
		LoWater:   lo * 1024,
		HiWater:   hi * 1024,
		KeepAlive: time.Duration(keepAliveSec) * time.Second,
	}, nil
}

// ResolveCacheParams applies spec.md §6.2's precedence: an explicit
// per-stream string wins, then the persist.sys.media.cache-params
// system property, then media.stagefright.cache-params, then the
// built-in defaults.
func ResolveCacheParams(explicit, persistSysProp, stagefrightProp string) CacheParams {
	for _, candidate := range []string{explicit, persistSysProp, stagefrightProp} {
		if candidate == "" {
			continue
		}
		if params, err := ParseCacheParams(candidate); err == nil {
			return params
		}
	}
	return defaultParams()
}
