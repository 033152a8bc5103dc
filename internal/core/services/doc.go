// Package services implements the core business logic: hybrid retrieval,
// the manual ingestion pipeline, note management and answer composition.
// Services depend only on domain types and ports.
package services
