// Package store provides a SQLite-backed cache of beta reductions.
//
// Every reduction is recorded once under a content-addressed key: the hash
// of the canonical input tree, its substitutions and the resolved options.
// Rows are append-only; a key is never rewritten.
//
// # Critical Patterns
//
// CP-1: Content-Addressed Keys
//   - key = HashBytes("xrq/reduction/v1", canonical {tree, substitutions, options})
//   - UNIQUE(key) with ON CONFLICT DO NOTHING makes Put idempotent
//
// CP-2: Logical Ordering
//   - All ordering uses seq INTEGER, NEVER timestamps
//   - List results: ORDER BY seq ASC, key COLLATE BINARY ASC
//
// CP-3: Replay
//   - Replay re-reduces every stored input and reports rows whose output
//     no longer matches, so an engine change that alters results is caught
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout: Wait for locks (5 seconds unless WithBusyTimeout is given)
//   - Migrations: ordered by version, applied above PRAGMA user_version
package store
