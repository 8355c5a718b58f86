// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Segment API - these keys describe the remote segment database and the query sent to it.
const (
	APIServer      = "api.server"
	APICategories  = "api.categories"
	APIActionTypes = "api.action_types"
)

// Auto-skip behaviour.
const (
	SkipEnable         = "skip.enable"
	SkipThreshold      = "skip.threshold"
	SkipNotify         = "skip.notify"
	SkipNotifyDuration = "skip.notify_duration"
	SkipBadge          = "skip.badge"
)

// Video discovery.
const (
	LocatorPollInterval = "locator.poll_interval"
)

// Identity resolution - governs the page-embedded fallback used when the URL lacks an id.
const (
	IdentityFetchPageState = "identity.fetch_page_state"
)

// Networking.
const (
	NetworkTLSFingerprint = "network.tls_fingerprint"
)

// Browser host - these keys configure the Chromium instance driven over CDP.
const (
	BrowserHeadless = "browser.headless"
	BrowserBin      = "browser.bin"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-interactive application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
