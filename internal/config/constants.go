package config

import "time"

// Retry policy defaults for the Alchemy client.
const (
	DefaultInitialRetryDelay = 1 * time.Second
	DefaultMaxRetryDelay     = 32 * time.Second
	DefaultBackoffMultiplier = 2.0
	DefaultMaxRetries        = 5
	DefaultRetryJitter       = 0.1 // ±10%
)

// HTTP client settings.
const (
	APITimeout               = 30 * time.Second
	DefaultRequestsPerSecond = 10
)

// Pagination settings.
const (
	// NFTPageSize is the page size requested from the NFT REST API.
	NFTPageSize = 100

	// SolanaAssetPageLimit is the page size for DAS getAssetsByOwner.
	// Pagination stops when a page returns fewer items than this.
	SolanaAssetPageLimit = 1000

	// MaxPaginationPages caps cursor loops so a malformed continuation
	// token from upstream cannot loop forever.
	MaxPaginationPages = 1000
)

// WrappedSOLMint is the wrapped SOL mint address. The DAS API reports native
// SOL under this mint when showNativeBalance is set.
const WrappedSOLMint = "So11111111111111111111111111111111111111112"

// RedactedPlaceholder replaces the API key in any surfaced error message.
const RedactedPlaceholder = "[REDACTED]"

// LogMaxAgeDays is how long rotated log files are kept.
const LogMaxAgeDays = 14
