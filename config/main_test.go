package config

import (
	"net/http"
	"testing"
	"time"
)

func TestParseCacheParamsValid(t *testing.T) {
	params, err := ParseCacheParams("1048576/10485760/5000")
	if err != nil {
		t.Fatalf("ParseCacheParams: %v", err)
	}
	if params.LoWater != 1048576*1024 || params.HiWater != 10485760*1024 {
		t.Fatalf("unexpected watermarks: %+v", params)
	}
	if params.KeepAlive != 5000*time.Second {
		t.Fatalf("unexpected keepalive: %v", params.KeepAlive)
	}
}

func TestParseCacheParamsEmptyUsesDefaults(t *testing.T) {
	params, err := ParseCacheParams("")
	if err != nil {
		t.Fatalf("ParseCacheParams: %v", err)
	}
	if params != defaultParams() {
		t.Fatalf("expected defaults, got %+v", params)
	}
}

func TestParseCacheParamsMalformedRevertsToDefaults(t *testing.T) {
	params, err := ParseCacheParams("not-a-triplet")
	if err == nil {
		t.Fatalf("expected an error for malformed input")
	}
	if params != defaultParams() {
		t.Fatalf("expected defaults on malformed input, got %+v", params)
	}
}

func TestParseCacheParamsLoNotLessThanHiRevertsToDefaults(t *testing.T) {
	params, err := ParseCacheParams("100/50/1000")
	if err == nil {
		t.Fatalf("expected an error when lo >= hi")
	}
	if params != defaultParams() {
		t.Fatalf("expected defaults when lo >= hi, got %+v", params)
	}
}

func TestResolveCacheParamsPrecedence(t *testing.T) {
	params := ResolveCacheParams("", "2000/20000/1000", "3000/30000/2000")
	if params.LoWater != 2000*1024 {
		t.Fatalf("expected persistSysProp to win over stagefrightProp, got %+v", params)
	}

	params = ResolveCacheParams("1000/10000/500", "2000/20000/1000", "3000/30000/2000")
	if params.LoWater != 1000*1024 {
		t.Fatalf("expected explicit to win over everything, got %+v", params)
	}

	params = ResolveCacheParams("", "", "")
	if params != defaultParams() {
		t.Fatalf("expected defaults when nothing is set, got %+v", params)
	}
}

func TestExtractCacheHeadersScrubs(t *testing.T) {
	h := make(http.Header)
	h.Set(CacheConfigHeader, "1000/10000/500")
	h.Set(DisconnectAtHighWatermarkHeader, "1")

	cacheConfig, disconnectAtHi := ExtractCacheHeaders(h)
	if cacheConfig != "1000/10000/500" {
		t.Fatalf("unexpected cacheConfig: %q", cacheConfig)
	}
	if !disconnectAtHi {
		t.Fatalf("expected disconnectAtHi to be true")
	}
	if h.Get(CacheConfigHeader) != "" || h.Get(DisconnectAtHighWatermarkHeader) != "" {
		t.Fatalf("expected headers to be scrubbed, got %+v", h)
	}
}
