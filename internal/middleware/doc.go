// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

/*
Package middleware provides HTTP middleware shared by the API router.

All middleware use the standard func(http.Handler) http.Handler shape so they
compose with chi's Use:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(500 * time.Millisecond))
	r.Use(middleware.PrometheusMetrics)

Components:

  - RequestID: X-Request-ID propagation plus request and correlation ids in
    the logging context
  - AccessLog: one structured zerolog line per request, escalated for slow
    requests and 5xx responses
  - PrometheusMetrics: request count, latency and in-flight gauge, labelled
    by chi route pattern

Authentication lives in internal/auth; CORS and rate limiting are wired by
internal/api using go-chi/cors and go-chi/httprate.
*/
package middleware
