package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/deck/internal/ir"
)

// Record appends a recording to the audit log.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - the id is content-addressed,
// so writing the same recording twice is silently ignored.
func (s *Store) Record(ctx context.Context, rec ir.Recording) error {
	argsJSON, err := marshalArgs(rec.Args)
	if err != nil {
		return fmt.Errorf("record %s: %w", rec.Operation, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO recordings (id, seq, operation, args, engine_version)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, rec.ID, rec.Seq, rec.Operation, argsJSON, rec.EngineVersion)
	if err != nil {
		return fmt.Errorf("record %s: %w", rec.Operation, err)
	}
	return nil
}

// ReadRecordings returns the whole audit log.
// Results are ordered deterministically: ORDER BY seq ASC, id COLLATE BINARY ASC.
//
// Returns an empty slice (not nil) if the log is empty.
func (s *Store) ReadRecordings(ctx context.Context) ([]ir.Recording, error) {
	return s.ReadRecordingsSince(ctx, 0)
}

// ReadRecordingsSince returns recordings with seq > afterSeq in log order.
func (s *Store) ReadRecordingsSince(ctx context.Context, afterSeq int64) ([]ir.Recording, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seq, operation, args, engine_version
		FROM recordings
		WHERE seq > ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, afterSeq)
	if err != nil {
		return nil, fmt.Errorf("query recordings: %w", err)
	}
	defer rows.Close()

	recordings := []ir.Recording{}
	for rows.Next() {
		rec, err := scanRecording(rows)
		if err != nil {
			return nil, err
		}
		recordings = append(recordings, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recordings: %w", err)
	}
	return recordings, nil
}

// LastSeq returns the highest recorded seq, or 0 for an empty log.
// The engine resumes its logical clock from here.
func (s *Store) LastSeq(ctx context.Context) (int64, error) {
	var seq sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(seq) FROM recordings`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("last seq: %w", err)
	}
	return seq.Int64, nil
}

func scanRecording(rows *sql.Rows) (ir.Recording, error) {
	var (
		rec      ir.Recording
		argsJSON string
	)
	if err := rows.Scan(&rec.ID, &rec.Seq, &rec.Operation, &argsJSON, &rec.EngineVersion); err != nil {
		return ir.Recording{}, fmt.Errorf("scan recording: %w", err)
	}
	args, err := unmarshalArgs(argsJSON)
	if err != nil {
		return ir.Recording{}, fmt.Errorf("recording %s: %w", rec.ID, err)
	}
	rec.Args = args
	return rec, nil
}
