// Package alert contains the alert state machine that turns per-cycle
// intrusion verdicts into SAFE/ALERT transitions and alert-output commands.
package alert
