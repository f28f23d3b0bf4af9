// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	DefaultRedisImage = "redis:7-alpine"
	redisPort         = "6379/tcp"
)

// RedisContainer is a running Redis instance.
type RedisContainer struct {
	testcontainers.Container
	// Addr is host:port reachable from the test process.
	Addr string
}

// RedisOption configures NewRedisContainer.
type RedisOption func(*redisConfig)

type redisConfig struct {
	image        string
	startTimeout time.Duration
}

// WithRedisImage overrides DefaultRedisImage.
func WithRedisImage(image string) RedisOption {
	return func(c *redisConfig) { c.image = image }
}

// WithRedisStartTimeout bounds how long to wait for the server to accept
// connections.
func WithRedisStartTimeout(d time.Duration) RedisOption {
	return func(c *redisConfig) { c.startTimeout = d }
}

// NewRedisContainer starts Redis and waits until it logs readiness.
func NewRedisContainer(ctx context.Context, opts ...RedisOption) (*RedisContainer, error) {
	cfg := &redisConfig{
		image:        DefaultRedisImage,
		startTimeout: 60 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	req := testcontainers.ContainerRequest{
		Image:        cfg.image,
		ExposedPorts: []string{redisPort},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort(redisPort),
			wait.ForLog("Ready to accept connections"),
		).WithStartupTimeout(cfg.startTimeout),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("create redis container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, redisPort)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mapped port: %w", err)
	}

	return &RedisContainer{
		Container: container,
		Addr:      fmt.Sprintf("%s:%s", host, port.Port()),
	}, nil
}
