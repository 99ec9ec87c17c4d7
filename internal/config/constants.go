package config

import "time"

// Timeout constants
const (
	// Database timeouts
	DatabaseConnMaxLifetime = 5 * time.Minute

	// Session timeouts
	SessionMaxAge = 7 * 24 * time.Hour // 7 days

	// Notification dispatch runs detached from the request; this bounds the
	// SMTP conversation, not the caller's response time.
	NotificationDispatchTimeout = 30 * time.Second

	// Shutdown timeouts
	ServerShutdownTimeout = 30 * time.Second
)

// Session configuration constants
const (
	SessionPath     = "/"
	SessionHTTPOnly = true
	SessionSecure   = false // Set to true in production with HTTPS

	SessionName = "civiccare-session"
)

// Security configuration constants
const (
	// Content Security Policy
	DefaultCSP = "default-src 'self'; style-src 'self' 'unsafe-inline'; script-src 'self' 'unsafe-inline'; img-src 'self' data:;"
)
