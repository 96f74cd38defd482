package config

import "time"

// this holds the resolved configuration values from CLI
//
//nolint:lll // readablity
var (
	JVDataRoot      string        // root of the JV-Data tree
	RTDataDir       string        // realtime odds snapshots, defaults to <JVDataRoot>/RT_DATA
	MyDataDir       string        // target-software user data (marks, bet files), defaults to <JVDataRoot>/MY_DATA
	CacheTTL        time.Duration // time to live of cached odds series
	LogLevel        string        // sets the log level (zap log level values)
	LogFormat       string        // text vs json
	LogFilter       string        // zapfilter rules, e.g. "debug:jvd.* info:*"
	EnableTelemetry bool          // enable telemetry
	OutputFormat    string        // output format of query commands (json, yaml)
)

const (
	RTDataName = "RT_DATA"
	MyDataName = "MY_DATA"
)

// RTDataPath returns the snapshot directory, derived from JVDataRoot if not
// set explicitly.
func RTDataPath() string {
	if RTDataDir != "" {
		return RTDataDir
	}
	return joinRoot(RTDataName)
}

// MyDataPath returns the user data directory, derived from JVDataRoot if not
// set explicitly.
func MyDataPath() string {
	if MyDataDir != "" {
		return MyDataDir
	}
	return joinRoot(MyDataName)
}
