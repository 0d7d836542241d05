package config

import "time"

// DomainConfig holds all configurable business rules and constraints
type DomainConfig struct {
	// Document constraints
	MaxCellsPerDocument  int
	MaxTopicsPerDocument int
	MaxDocumentBytes     int

	// Roadmap constraints
	MaxNameLength        int
	MinNameLength        int
	MaxRoadmapsPerUser   int

	// User collections
	MaxRecentRoadmaps int

	// Listing limits
	PageSize int

	// Time constraints
	LockTTL        time.Duration
	SessionTimeout time.Duration

	// Feature flags
	EnableEventPublishing bool
	EnableProgressEvents  bool
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		// Document constraints
		MaxCellsPerDocument:  10000,
		MaxTopicsPerDocument: 5000,
		MaxDocumentBytes:     2 << 20, // 2 MiB

		// Roadmap constraints
		MaxNameLength:      200,
		MinNameLength:      1,
		MaxRoadmapsPerUser: 500,

		// User collections
		MaxRecentRoadmaps: 5,

		// Listing limits
		PageSize: 10,

		// Time constraints
		LockTTL:        30 * time.Second,
		SessionTimeout: 24 * time.Hour,

		// Feature flags
		EnableEventPublishing: true,
		EnableProgressEvents:  true,
	}
}
