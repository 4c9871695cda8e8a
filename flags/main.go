package flags

import "flag"

var (
	isDebug     = flag.Bool("debug", false, "Enable debug mode")
	chart       = flag.Bool("chart", false, "Show the termdash cache dashboard")
	metricsAddr = flag.String("metrics-addr", ":2112", "Address to serve /metrics on")
	cacheParams = flag.String("cache-params", "", "Override cache params as \"lo/hi/keepalive\" (lo/hi in KiB, keepalive in seconds)")
)

func GetIsDebug() *bool         { return isDebug }
func GetChart() *bool           { return chart }
func GetMetricsAddr() *string   { return metricsAddr }
func GetCacheParams() *string   { return cacheParams }
