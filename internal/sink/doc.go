// Package sink delivers status snapshots to their consumers: the local
// console display, an optional MQTT topic for remote dashboards, a
// circuit-breaker wrapper for flaky remote sinks, and a fan-out combinator.
//
// All sinks are fire-and-forget from the monitoring loop's perspective;
// their errors are logged by the loop and never abort a cycle.
package sink
