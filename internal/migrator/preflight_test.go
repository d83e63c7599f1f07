package migrator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/orgmigrate/internal/config"
)

func preflightConfig(batchSize int) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Migration.RootObject = "Contact"
	cfg.Processing.BatchSize = batchSize
	return cfg
}

func TestPreflightAllChecksPass(t *testing.T) {
	src := newFakeSource(contactSchema())
	session := NewSession(src, nil)
	checker := NewPreflightChecker(session, nil)

	targets := []Target{newFakeTarget("staging"), newFakeTarget("qa")}
	err := checker.Run(context.Background(), preflightConfig(200), targets)
	assert.NoError(t, err)
}

func TestPreflightAggregatesFailures(t *testing.T) {
	src := newFakeSource() // no schemas: describing the root object fails
	src.pingErr = errors.New("401 unauthorized")
	session := NewSession(src, nil)
	checker := NewPreflightChecker(session, nil)

	unreachable := newFakeTarget("staging")
	unreachable.pingErr = errors.New("dial tcp: connection refused")

	err := checker.Run(context.Background(), preflightConfig(500), []Target{unreachable})
	require.Error(t, err)

	var pfErr *PreflightError
	require.ErrorAs(t, err, &pfErr)
	require.Len(t, pfErr.Failures, 4)

	msg := err.Error()
	assert.Contains(t, msg, "batch size 500")
	assert.Contains(t, msg, "source org unreachable")
	assert.Contains(t, msg, "cannot describe root object Contact")
	assert.Contains(t, msg, "target org staging unreachable")
}

func TestPreflightTargetFailureIsPerTarget(t *testing.T) {
	src := newFakeSource(contactSchema())
	session := NewSession(src, nil)
	checker := NewPreflightChecker(session, nil)

	good := newFakeTarget("good")
	bad := newFakeTarget("bad")
	bad.pingErr = errors.New("503 service unavailable")

	err := checker.Run(context.Background(), preflightConfig(50), []Target{good, bad})
	require.Error(t, err)

	var pfErr *PreflightError
	require.ErrorAs(t, err, &pfErr)
	require.Len(t, pfErr.Failures, 1)
	assert.Contains(t, pfErr.Failures[0], "bad")
	assert.NotContains(t, pfErr.Failures[0], "good")
}
