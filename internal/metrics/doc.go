// Package metrics defines the Prometheus collectors for the display's sync activity.
//
// Collectors are registered on the default registry through promauto and exposed by
// the status server at /metrics when metrics.addr is configured.
package metrics
