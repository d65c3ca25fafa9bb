package hostname

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"time"

	"github.com/failsafe-go/failsafe-go/circuitbreaker"
	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/taskmaster/internal/domain"
	"github.com/pscheid92/taskmaster/internal/platform/retry"
	"golang.org/x/sync/singleflight"
)

const lookupKey = "localhost"

// Observer receives lookup results and breaker state changes.
type Observer interface {
	RecordLookup(fallback bool, elapsed time.Duration)
	SetBreakerState(state float64)
}

type noopObserver struct{}

func (noopObserver) RecordLookup(bool, time.Duration) {}
func (noopObserver) SetBreakerState(float64)          {}

// Config tunes the lookup timeout, retries and the circuit breaker.
// Attempts below 1 mean a single attempt. Timeout covers all attempts.
// A nil Clock means the real clock.
type Config struct {
	Clock           clockwork.Clock
	Timeout         time.Duration
	Attempts        int
	RetryBackoff    time.Duration
	BreakerFailures uint
	BreakerDelay    time.Duration
}

// Resolver reads the OS hostname and checks that it resolves on the local resolver.
// Every call performs a fresh lookup; concurrent calls share one in-flight lookup.
// After BreakerFailures consecutive failures the breaker opens and calls go
// straight to the fallback until BreakerDelay has passed.
type Resolver struct {
	hostname func() (string, error)
	lookup   func(ctx context.Context, host string) ([]string, error)
	timeout  time.Duration
	clock    clockwork.Clock
	policy   retry.Policy
	group    singleflight.Group
	cb       circuitbreaker.CircuitBreaker[any]
	observer Observer
}

var _ domain.HostnameResolver = (*Resolver)(nil)

// NewResolver creates a resolver backed by os.Hostname and net.DefaultResolver.
// observer may be nil.
func NewResolver(cfg Config, observer Observer) *Resolver {
	if observer == nil {
		observer = noopObserver{}
	}
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	cb := circuitbreaker.NewBuilder[any]().
		WithFailureThreshold(cfg.BreakerFailures).
		WithDelay(cfg.BreakerDelay).
		WithSuccessThreshold(1).
		OnStateChanged(func(e circuitbreaker.StateChangedEvent) {
			slog.Warn("Circuit breaker state changed",
				"component", "hostname",
				"from", e.OldState.String(),
				"to", e.NewState.String(),
			)
			observer.SetBreakerState(stateToFloat(e.NewState))
		}).
		Build()

	return &Resolver{
		hostname: os.Hostname,
		lookup:   net.DefaultResolver.LookupHost,
		timeout:  cfg.Timeout,
		clock:    clock,
		policy: retry.Policy{
			MaxAttempts:    cfg.Attempts,
			InitialBackoff: cfg.RetryBackoff,
			Clock:          clock,
			OnRetry: func(attempt int, err error, backoff time.Duration) {
				slog.Debug("Retrying hostname lookup", "attempt", attempt, "error", err, "backoff", backoff)
			},
		},
		cb:       cb,
		observer: observer,
	}
}

func stateToFloat(state circuitbreaker.State) float64 {
	switch state {
	case circuitbreaker.ClosedState:
		return 0
	case circuitbreaker.HalfOpenState:
		return 1
	case circuitbreaker.OpenState:
		return 2
	default:
		return -1
	}
}

// Resolve returns the local hostname, or domain.UnknownHostname when it cannot be resolved.
// Callers that overlap share one lookup, and that lookup counts once
// toward the circuit breaker.
func (r *Resolver) Resolve(ctx context.Context) domain.Hostname {
	v, _, _ := r.group.Do(lookupKey, func() (any, error) {
		return r.resolveOnce(ctx), nil
	})
	return v.(domain.Hostname)
}

func (r *Resolver) resolveOnce(ctx context.Context) domain.Hostname {
	if !r.cb.TryAcquirePermit() {
		slog.DebugContext(ctx, "Hostname circuit open, using fallback")
		r.observer.RecordLookup(true, 0)
		return domain.UnknownHostname()
	}

	start := r.clock.Now()
	name, err := r.lookupLocalHost(ctx)
	elapsed := r.clock.Since(start)

	if err != nil {
		r.cb.RecordError(err)
		slog.WarnContext(ctx, "Hostname lookup failed, using fallback", "error", err, "fallback", domain.FallbackHostname)
		r.observer.RecordLookup(true, elapsed)
		return domain.UnknownHostname()
	}

	r.cb.RecordSuccess()
	r.observer.RecordLookup(false, elapsed)
	return domain.ResolvedHostname(name)
}

// lookupLocalHost runs detached from the caller's cancellation: the result is
// shared with every caller waiting on the same flight.
func (r *Resolver) lookupLocalHost(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()

	name, err := r.hostname()
	if err != nil {
		return "", fmt.Errorf("failed to read hostname: %w", err)
	}
	if name == "" {
		return "", errors.New("failed to read hostname: empty name")
	}

	_, err = retry.Do(ctx, r.policy, classifyLookupError, func(ctx context.Context) ([]string, error) {
		return r.lookup(ctx, name)
	})
	if err != nil {
		return "", fmt.Errorf("failed to resolve hostname %q: %w", name, err)
	}
	return name, nil
}

// classifyLookupError retries only DNS failures the resolver reports as transient.
func classifyLookupError(err error) retry.Action {
	if dnsErr, ok := errors.AsType[*net.DNSError](err); ok && (dnsErr.IsTemporary || dnsErr.IsTimeout) {
		return retry.Retry
	}
	return retry.Stop
}
