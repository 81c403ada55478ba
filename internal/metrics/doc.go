// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

/*
Package metrics provides Prometheus instrumentation for TheBox.

Metrics are registered on the default registry through promauto and exposed
at /metrics in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

API:
  - api_requests_total{method, endpoint, status_code}
  - api_request_duration_seconds{method, endpoint}
  - api_active_requests
  - api_rate_limit_hits_total{endpoint}

Cache:
  - cache_hits_total{backend}, cache_misses_total{backend}
  - cache_errors_total{backend, operation}
  - cache_entries{backend}, cache_evictions_total{backend}

Circuit breaker (cache backends):
  - circuit_breaker_state{name}: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total{name, result}
  - circuit_breaker_consecutive_failures{name}
  - circuit_breaker_state_transitions_total{name, from, to}

Store:
  - store_operation_duration_seconds{collection, operation}
  - store_operation_errors_total{collection, operation}

Interactions and signatures:
  - interactions_recorded_total{action}
  - interaction_errors_total{action, reason}
  - signature_behavioral_tag_changes_total{direction}

Recommendations:
  - recommendation_build_duration_seconds{kind}
  - recommendation_pool_size{pool}
  - recommendation_results_total{kind, source}

Events:
  - events_published_total{topic}, event_publish_errors_total{topic}
  - events_consumed_total{topic, action}
  - events_parse_failed_total{topic}

Auth:
  - auth_attempts_total{operation, result}

# Example Alerts

	groups:
	  - name: thebox
	    rules:
	      - alert: CacheCircuitOpen
	        expr: circuit_breaker_state == 2
	        for: 5m
	      - alert: InteractionStoreErrors
	        expr: rate(interaction_errors_total{reason="store"}[5m]) > 0
*/
package metrics
