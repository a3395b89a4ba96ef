package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainRecording separates recording hashes from any other hash we compute.
const DomainRecording = "deck/recording/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// RecordingID computes the content-addressed id of a recording.
// The same operation, args and seq always produce the same id, so a replayed
// log written to a fresh database carries identical ids.
func RecordingID(operation string, args Args, seq int64) (string, error) {
	if args == nil {
		args = Args{}
	}
	canonical, err := MarshalCanonical(map[string]any{
		"operation": operation,
		"args":      map[string]any(args),
		"seq":       seq,
	})
	if err != nil {
		return "", fmt.Errorf("RecordingID: %w", err)
	}
	return hashWithDomain(DomainRecording, canonical), nil
}

// NewRecording stamps a recording with its id and the engine version.
func NewRecording(operation string, args Args, seq int64) (Recording, error) {
	if args == nil {
		args = Args{}
	}
	id, err := RecordingID(operation, args, seq)
	if err != nil {
		return Recording{}, err
	}
	return Recording{
		ID:            id,
		Seq:           seq,
		Operation:     operation,
		Args:          args,
		EngineVersion: EngineVersion,
	}, nil
}
