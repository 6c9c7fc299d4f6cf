package dto

import "time"

// InitializePersistenceCommand controls startup against the bill payment store.
// SkipMigrations is set by runtimes that only read and sweep, such as the
// standalone reconciler.
type InitializePersistenceCommand struct {
	ReadinessTimeout       time.Duration
	ReadinessRetryInterval time.Duration
	SkipMigrations         bool
}
