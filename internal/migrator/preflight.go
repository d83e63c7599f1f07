package migrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/dbsmedya/orgmigrate/internal/config"
	"github.com/dbsmedya/orgmigrate/internal/logger"
)

// PreflightError aggregates every preflight check that failed.
type PreflightError struct {
	Failures []string
}

func (e *PreflightError) Error() string {
	return fmt.Sprintf("preflight failed (%d checks):\n  - %s",
		len(e.Failures), strings.Join(e.Failures, "\n  - "))
}

// Pinger is implemented by connections that can verify reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PreflightChecker verifies a migration can plausibly run before any record
// is fetched or written: the source must be reachable and able to describe
// the root object, every target must be reachable, and the batch size must
// be within the bulk API limit.
type PreflightChecker struct {
	session *Session
	log     *logger.Logger
}

// NewPreflightChecker creates a preflight checker for a session.
func NewPreflightChecker(session *Session, log *logger.Logger) *PreflightChecker {
	if log == nil {
		log = logger.NewDefault()
	}
	return &PreflightChecker{session: session, log: log}
}

// Run executes all preflight checks and returns a PreflightError listing
// every failure, or nil when all checks pass.
func (p *PreflightChecker) Run(ctx context.Context, cfg *config.Config, targets []Target) error {
	var failures []string

	if cfg.Processing.BatchSize <= 0 || cfg.Processing.BatchSize > config.MaxBatchSize {
		failures = append(failures, fmt.Sprintf(
			"batch size %d is outside the valid range 1..%d",
			cfg.Processing.BatchSize, config.MaxBatchSize))
	}

	if pinger, ok := p.session.source.(Pinger); ok {
		if err := pinger.Ping(ctx); err != nil {
			failures = append(failures, fmt.Sprintf("source org unreachable: %v", err))
		}
	}

	if _, err := p.session.cache.Describe(ctx, cfg.Migration.RootObject); err != nil {
		failures = append(failures, fmt.Sprintf(
			"cannot describe root object %s: %v", cfg.Migration.RootObject, err))
	}

	for _, target := range targets {
		pinger, ok := target.(Pinger)
		if !ok {
			continue
		}
		if err := pinger.Ping(ctx); err != nil {
			failures = append(failures, fmt.Sprintf(
				"target org %s unreachable: %v", target.Name(), err))
		}
	}

	if len(failures) > 0 {
		return &PreflightError{Failures: failures}
	}

	p.log.Info("Preflight checks passed")
	return nil
}
