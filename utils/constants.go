package utils

import (
	"time"
)

// Session and cookie constants
const (
	// SessionTTL is the lifetime of a session issued on session exchange (7 days)
	SessionTTL = 7 * 24 * time.Hour

	// SessionTTLSeconds is the session lifetime in seconds, used for cookie max-age
	SessionTTLSeconds = 7 * 24 * 60 * 60

	// SessionCookieName is the cookie carrying the session token
	SessionCookieName = "session_token"
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Catalog and valuation constants
const (
	TRYCurrency = "TRY"

	// CatalogSearchLimit caps the number of rows returned by vehicle search
	CatalogSearchLimit = 50

	// SavedVehiclesLimit caps the number of saved valuations returned per user
	SavedVehiclesLimit = 100

	// BrandsCacheKey and ModelsCacheKeyPrefix are cache keys for distinct catalog values
	BrandsCacheKey       = "catalog:brands"
	ModelsCacheKeyPrefix = "catalog:models:"
)

// Upload constants
const (
	// MaxScanImageSize is the maximum accepted OCR upload size (10MB)
	MaxScanImageSize = 10 * 1024 * 1024
)
