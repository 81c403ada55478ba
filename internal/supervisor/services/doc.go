// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

// Package services adapts blocking server components to suture.Service.
//
// HTTPServerService runs an *http.Server. EventRouterService builds and runs
// the interaction event router, rebuilding it on every restart.
// StoreGCService reclaims badger value log space on a ticker. All of them
// stop when their context is canceled.
package services
