// Package main hosts the subfit CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into calls against
// the resegmentation engine and the orchestration helpers around it: audio
// extraction, transcription, subtitle burn-in, run history and configuration
// scaffolding. It centralizes configuration resolution, logger setup and
// history recording so subcommands only describe their own flow.
//
// Keep this package thin. New behaviour belongs in the internal packages first
// and is surfaced here through a dedicated command or flag.
package main
