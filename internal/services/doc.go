// Package services holds the small shared vocabulary used by every subfit
// command: error markers that classify failures and context helpers that
// stamp run identifiers and stage names onto log lines.
//
// Wrap failures with one of the exported markers so history rows and CLI
// messages can report the failure kind without string matching.
package services
