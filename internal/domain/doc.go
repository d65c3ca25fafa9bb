// Package domain defines the core domain types and interfaces.
//
// This package contains concept-oriented files (task.go, hostname.go, board.go)
// with shared types and cross-cutting interfaces. No implementation code - just contracts.
// Adapters implement these interfaces; the app layer consumes them.
package domain
