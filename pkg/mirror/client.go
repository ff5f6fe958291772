// Copyright 2026 Chainborn
//
// Firestore client wrapper for the Result Mirror, grounded on
// pkg/firestore/client.go: a thin lazy wrapper around the Firebase Admin
// SDK that degrades to a no-op client when disabled rather than erroring,
// so an embedding application can construct one unconditionally.
package mirror

import (
	"context"
	"fmt"
	"log"
	"sync"

	gcpfirestore "cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// Client wraps a Firestore client used to mirror validation outcomes.
type Client struct {
	firestore *gcpfirestore.Client
	projectID string
	logger    *log.Logger
	enabled   bool
	mu        sync.RWMutex
}

// ClientConfig configures a Client.
type ClientConfig struct {
	ProjectID       string
	CredentialsFile string
	Enabled         bool
	Logger          *log.Logger
}

// NewClient constructs a Client. When cfg.Enabled is false the returned
// Client is a no-op: every write method returns nil without touching the
// network.
func NewClient(ctx context.Context, cfg ClientConfig) (*Client, error) {
	if cfg.Logger == nil {
		cfg.Logger = log.New(log.Writer(), "[ResultMirror] ", log.LstdFlags)
	}

	c := &Client{projectID: cfg.ProjectID, logger: cfg.Logger, enabled: cfg.Enabled}

	if !cfg.Enabled {
		cfg.Logger.Println("result mirror disabled, running in no-op mode")
		return c, nil
	}
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("mirror: project id is required when enabled")
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("mirror: initialize firebase app: %w", err)
	}

	fsClient, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("mirror: create firestore client: %w", err)
	}

	c.firestore = fsClient
	cfg.Logger.Printf("result mirror initialized for project %s", cfg.ProjectID)
	return c, nil
}

// IsEnabled reports whether the client performs real Firestore writes.
func (c *Client) IsEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.enabled
}

// Collection returns the named collection, or nil when disabled.
func (c *Client) Collection(path string) *gcpfirestore.CollectionRef {
	if !c.IsEnabled() || c.firestore == nil {
		return nil
	}
	return c.firestore.Collection(path)
}

// Close releases the underlying Firestore client.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.firestore != nil {
		return c.firestore.Close()
	}
	return nil
}
