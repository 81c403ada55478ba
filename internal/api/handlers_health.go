// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package api

import (
	"context"
	"net/http"
	"time"
)

// healthPingTimeout bounds the store ping of a health check.
const healthPingTimeout = 2 * time.Second

// HealthStatus is the health report.
type HealthStatus struct {
	Status         string  `json:"status"`
	Version        string  `json:"version"`
	StoreConnected bool    `json:"store_connected"`
	CacheBreaker   string  `json:"cache_breaker,omitempty"`
	EventsBackend  string  `json:"events_backend,omitempty"`
	Uptime         float64 `json:"uptime"`
}

// Health reports store connectivity, the cache breaker state and the event
// backend. The status is "degraded" when the store is unreachable or the
// cache breaker is open; the endpoint itself always answers 200.
//
// GET /api/v1/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()

	storeOK := h.store != nil && h.store.Ping(ctx) == nil

	health := HealthStatus{
		Status:         "healthy",
		Version:        h.version,
		StoreConnected: storeOK,
		EventsBackend:  h.eventsBackend,
		Uptime:         time.Since(h.startTime).Seconds(),
	}
	if h.cache != nil {
		health.CacheBreaker = h.cache.State()
	}
	if !storeOK || health.CacheBreaker == "open" {
		health.Status = "degraded"
	}

	respondSuccess(w, http.StatusOK, health, time.Time{})
}
