// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

/*
Package api provides the HTTP REST API for TheBox.

All routes live under /api/v1 and answer with the models.APIResponse
envelope:

	{
	  "status": "success",
	  "data": {...},
	  "metadata": {"timestamp": "2026-03-01T12:00:00Z"}
	}

Errors carry {"code", "message", "details"} in the error field. Service
errors are mapped by kind (see writeError):

	apperr.ErrNotFound      404 NOT_FOUND
	apperr.ErrUnauthorized  401 UNAUTHORIZED
	apperr.ErrForbidden     403 FORBIDDEN
	apperr.ErrConflict      400 CONFLICT
	apperr.ErrValidation    400 VALIDATION_ERROR
	anything else           500 INTERNAL_ERROR

Route groups:

  - /api/v1/auth: register, login and refresh are public and rate limited
    more strictly; logout needs a bearer token.
  - /api/v1/users, /api/v1/stories: reads are public, writes act on the
    authenticated caller.
  - /api/v1/interactions: view, skip, react, share and repost.
  - /api/v1/recommendations: the caller's feed and signature suggestions.
  - /api/v1/discover: anonymous exploration by interests and location.
  - /api/v1/health: store, cache and event bus status.

Uploaded media is served read-only under /media/, and Prometheus metrics
under /metrics.

Middleware stack, outermost first: request id and logging context, real IP,
panic recovery, CORS, access log, Prometheus request metrics, per-IP rate
limit, and bearer authentication on protected routes.
*/
package api
