// Package driving provides interfaces through which external actors
// (CLI commands, future request layers) drive the core services.
package driving
