// Package events runs best-effort side effects of account provisioning
// (welcome notification, signup metric) off the request path.
package events

import (
	"context"
	"expvar"
)

// NewAccountEvent is emitted after a self-service registration commits.
// OneTimeSecret is handed to the notifier once and never stored.
type NewAccountEvent struct {
	ID            string
	AccountID     string
	Email         string
	DisplayName   string
	OneTimeSecret string
}

// Notifier delivers the one-time secret to a newly registered member.
type Notifier interface {
	NotifyNewAccount(ctx context.Context, email, displayName, oneTimeSecret string) error
}

// Metrics counts provisioning outcomes.
type Metrics interface {
	IncSignup()
}

// Submitter is what provisioning code depends on. Submit must never block
// and never fail the caller.
type Submitter interface {
	Submit(ev NewAccountEvent) bool
}

// ExpvarMetrics publishes counters through the standard expvar endpoint.
type ExpvarMetrics struct {
	signups *expvar.Int
}

var signupsTotal = expvar.NewInt("gophmember_signups_total")

func NewExpvarMetrics() *ExpvarMetrics {
	return &ExpvarMetrics{signups: signupsTotal}
}

func (m *ExpvarMetrics) IncSignup() {
	m.signups.Add(1)
}

// Value returns the current signup count.
func (m *ExpvarMetrics) Value() int64 {
	return m.signups.Value()
}
