// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package log re-exports the shared Logger type so every consensus
// package depends on one logging surface instead of importing
// github.com/luxfi/log directly.
package log

import "github.com/luxfi/log"

// Logger is the structured logger interface used throughout the
// consensus core.
type Logger = log.Logger

// NoOp returns a logger that discards everything, for tests and
// components that have not been wired to a real logger yet.
func NoOp() Logger {
	return log.NewNoOpLogger()
}

// Named returns a child logger scoped to component (trust, randao,
// forkchoice, …) so log lines can be filtered by component.
func Named(parent Logger, component string) Logger {
	return parent.With("component", component)
}
