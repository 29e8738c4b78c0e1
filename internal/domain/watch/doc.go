// Package watch holds the core domain types of the perimeter monitor:
// sensor readings, the intrusion predicate, the alert state machine
// vocabulary and the published status snapshot.
package watch
