package telemetry

import (
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
)

const sentryFlushTimeout = 5 * time.Second

type SentryConfig struct {
	DSN         string
	Environment string
	Release     string
}

// InitSentry returns a hub bound to a fresh client, or nil when no DSN is set.
// The returned flush func is always safe to call.
func InitSentry(cfg SentryConfig) (*sentry.Hub, func(), error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, func() {}, nil
	}

	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		AttachStacktrace: true,
	})
	if err != nil {
		return nil, func() {}, err
	}

	hub := sentry.NewHub(client, sentry.NewScope())
	return hub, func() { hub.Flush(sentryFlushTimeout) }, nil
}
