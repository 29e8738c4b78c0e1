// Package status implements the sentinel-status client that queries a
// running monitor for its latest snapshot.
package status
