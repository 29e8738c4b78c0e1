// Package notify defines pluggable notification channels fired when the
// alert state transitions, with a log-only default and a Telegram bot
// implementation.
package notify
