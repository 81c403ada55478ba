// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

//go:build integration

package testinfra

import (
	"context"
	"fmt"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultNATSImage is the NATS server image used by event bus tests.
	DefaultNATSImage = "nats:2.10-alpine"

	// DefaultNATSPort is the container-side client port.
	DefaultNATSPort = "4222/tcp"
)

// NATSContainer is a running core NATS server. JetStream is not enabled.
type NATSContainer struct {
	testcontainers.Container
	URL string
}

// NewNATSContainer starts a NATS server and waits for its client port.
func NewNATSContainer(ctx context.Context, opts ...ContainerOption) (*NATSContainer, error) {
	cfg := applyOptions(DefaultNATSImage, opts)

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        cfg.image,
			ExposedPorts: []string{DefaultNATSPort},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort(DefaultNATSPort),
				wait.ForLog("Server is ready"),
			).WithStartupTimeout(cfg.startTimeout),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create nats container: %w", err)
	}

	addr, err := endpoint(ctx, container, DefaultNATSPort)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, err
	}

	return &NATSContainer{Container: container, URL: "nats://" + addr}, nil
}
