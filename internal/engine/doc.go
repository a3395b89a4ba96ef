// Package engine implements the slide deck ordering engine.
//
// The engine owns every write to the deck. Each operation follows the same
// path:
//
//  1. Check the arguments (DeckError with INVALID_ARGUMENT on failure)
//  2. Stamp a recording with the next logical seq and hand it to the Recorder
//  3. Run the read-check-write sequence inside one Store.Atomic transaction
//
// A recording that cannot be written is logged and dropped; it never fails
// the deck operation. A precondition that fails inside the transaction
// rolls back every write made so far.
//
// # Invariants
//
// After every completed operation:
//   - slide numbers are unique
//   - at most one slide is active
//
// SetActive is the only place the active flag changes; it refuses to
// activate a slide while a different one is active.
//
// # Replay
//
// Recordings carry the generated slide ids, so replaying a log into an
// empty deck with a fresh clock rebuilds the same deck and the same log,
// recording ids included.
//
// # Concurrency
//
// The engine assumes a single logical writer. It holds no lock of its own;
// the SQLite store serializes transactions on its single connection.
package engine
