package rest

import (
	"context"
	"fmt"
	"time"

	"github.com/dbsmedya/orgmigrate/internal/config"
)

// Manager holds the source connection and all target connections for a run.
type Manager struct {
	Source  *Connection
	Targets []*Connection
	config  *config.Config
}

// NewManager creates a connection manager from configuration.
func NewManager(cfg *config.Config) *Manager {
	return &Manager{config: cfg}
}

// Connect establishes and verifies all configured connections.
func (m *Manager) Connect(ctx context.Context) error {
	var err error

	m.Source, err = m.connectWithRetry(ctx, m.config.Source)
	if err != nil {
		return fmt.Errorf("failed to connect to source org: %w", err)
	}

	for _, targetCfg := range m.config.Targets {
		target, err := m.connectWithRetry(ctx, targetCfg)
		if err != nil {
			return fmt.Errorf("failed to connect to target org %q: %w", targetCfg.Name, err)
		}
		m.Targets = append(m.Targets, target)
	}

	return nil
}

// ConnectSource establishes the source connection only.
// Use this for read-only operations (describe, plan).
func (m *Manager) ConnectSource(ctx context.Context) error {
	var err error
	m.Source, err = m.connectWithRetry(ctx, m.config.Source)
	if err != nil {
		return fmt.Errorf("failed to connect to source org: %w", err)
	}
	return nil
}

// connectWithRetry verifies a connection with exponential backoff.
func (m *Manager) connectWithRetry(ctx context.Context, cfg config.OrgConfig) (*Connection, error) {
	conn := NewConnection(cfg)

	maxRetries := 3
	backoff := time.Second

	var err error
	for i := 0; i < maxRetries; i++ {
		err = conn.Ping(ctx)
		if err == nil {
			return conn, nil
		}

		if i < maxRetries-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
				backoff *= 2 // Exponential backoff
			}
		}
	}

	return nil, fmt.Errorf("failed after %d retries: %w", maxRetries, err)
}
