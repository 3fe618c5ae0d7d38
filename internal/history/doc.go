// Package history persists one row per resegmentation run in a SQLite
// database under the configured state directory.
//
// Commands record what they read and wrote, the width and timing policy in
// effect, block counters from the engine, and how the run ended. Rows are
// addressed by UUID (a unique prefix is enough for lookups) and pruned to the
// configured retention count after each recorded run.
package history
