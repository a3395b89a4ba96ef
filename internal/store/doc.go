// Package store provides SQLite-backed durable storage for slide decks.
//
// Two tables live side by side:
//   - slides: the deck itself, one row per slide
//   - recordings: the append-only audit log of deck operations
//
// # Invariants enforced by the schema
//
//   - UNIQUE(number): no two slides share a position
//   - partial UNIQUE(active) WHERE active = 1: at most one active slide
//   - UNIQUE(seq) on recordings: the logical clock never repeats
//
// Multi-step deck updates run inside Store.Atomic, a single transaction;
// Collection is the view handed to the callback.
//
// # Deterministic reads
//
// Slide queries always end in ORDER BY number, id COLLATE BINARY and
// recordings in ORDER BY seq, id COLLATE BINARY, so two reads of the same
// database return identical results.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//   - one open connection: SQLite has a single writer anyway
package store
