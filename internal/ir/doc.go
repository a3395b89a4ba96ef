// Package ir holds the plain data types shared by every other package:
// slides, the ordering projection, move requests and audit recordings.
//
// ir imports nothing internal. Store, engine, harness and cli all build on
// it, so it stays free of behavior beyond validation and canonical encoding.
//
// Key constraints:
//   - Numbers are int64, never floats (audit args must hash identically on replay)
//   - Recordings are ordered by a logical seq, never wall-clock time
//   - Recording args are serialized as RFC 8785 canonical JSON
package ir
