package store

import (
	"fmt"

	"github.com/roach88/deck/internal/ir"
)

// marshalArgs converts recording args to canonical JSON TEXT for storage.
// Canonical form keeps the stored text byte-identical across runs.
func marshalArgs(args ir.Args) (string, error) {
	if args == nil {
		args = ir.Args{}
	}
	data, err := ir.MarshalCanonical(args)
	if err != nil {
		return "", fmt.Errorf("marshal args: %w", err)
	}
	return string(data), nil
}

// unmarshalArgs parses stored JSON TEXT back into recording args.
func unmarshalArgs(s string) (ir.Args, error) {
	args, err := ir.DecodeArgs([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("unmarshal args: %w", err)
	}
	return args, nil
}
