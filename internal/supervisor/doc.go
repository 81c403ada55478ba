// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

/*
Package supervisor runs the long-lived parts of the server under suture v4.

Each layer restarts independently, so an event bus failure never takes the
API down:

	RootSupervisor ("thebox")
	├── StorageSupervisor ("storage-layer")
	│   └── StoreGCService
	├── MessagingSupervisor ("messaging-layer")
	│   └── EventRouterService (if events are enabled)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services are restarted with backoff once FailureThreshold failures
accumulate within the decay window. Supervisor events are logged through
sutureslog into the zerolog-backed slog logger.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddStorageService(services.NewStoreGCService(db, cfg.Store.GCInterval, cfg.Store.GCDiscardRatio))
	tree.AddMessagingService(services.NewEventRouterService(newRouter))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	errCh := tree.ServeBackground(ctx)

On shutdown, UnstoppedServiceReport lists services that did not stop within
ShutdownTimeout.
*/
package supervisor
