// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// App is the canonical application identifier used for filesystem paths and CLI branding.
	App = "sbskip"

	// Version is the current application semantic version string.
	Version = "0.11.2"

	// UserAgent is the default HTTP User-Agent string sent to the segment API and video pages.
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// DefaultAPIServer is the crowd-sourced segment database queried for skip intervals.
	DefaultAPIServer = "http://api.bsbsb.top"

	// Repository is the upstream repository used for release checks.
	Repository = "sbskip/sbskip"
)

// Build metadata, injected through -ldflags at release time.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)

// GOOS values the dependency check distinguishes.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)
