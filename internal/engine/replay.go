package engine

import (
	"context"
	"fmt"

	"github.com/roach88/deck/internal/ir"
)

// ReplayResult summarizes a replay.
type ReplayResult struct {
	// Applied counts recordings whose operation completed without error.
	Applied int

	// Skipped lists recordings the deck refused, in log order.
	Skipped []SkippedRecording
}

// SkippedRecording is a recording whose operation returned a DeckError.
type SkippedRecording struct {
	Seq       int64
	Operation string
	Code      ErrorCode
	Err       error
}

// Replay re-applies recordings in the given order through Invoke, so the
// engine records them again with its own clock.
//
// Recordings the deck refuses are expected (the original call was refused
// too) and are counted in Skipped. A malformed recording or a storage
// error stops the replay.
func (e *Engine) Replay(ctx context.Context, recs []ir.Recording) (ReplayResult, error) {
	result := ReplayResult{Skipped: []SkippedRecording{}}

	for _, rec := range recs {
		err := e.Invoke(ctx, rec.Operation, rec.Args)
		switch {
		case err == nil:
			result.Applied++
		case IsDeckError(err):
			result.Skipped = append(result.Skipped, SkippedRecording{
				Seq:       rec.Seq,
				Operation: rec.Operation,
				Code:      ErrorCodeOf(err),
				Err:       err,
			})
		default:
			return result, fmt.Errorf("replay seq %d (%s): %w", rec.Seq, rec.Operation, err)
		}
	}

	e.logger.Info("replay finished",
		"recordings", len(recs),
		"applied", result.Applied,
		"skipped", len(result.Skipped),
	)
	return result, nil
}

// Invoke runs the operation named op with arguments in their recorded form.
//
// Insert and blank use the "id" argument for the new slide when present and
// generate one otherwise. Malformed arguments and unknown operations return
// a plain error, not a DeckError.
func (e *Engine) Invoke(ctx context.Context, op string, args ir.Args) error {
	if args == nil {
		args = ir.Args{}
	}

	switch op {
	case ir.OpInsert:
		location, err := args.Int("location")
		if err != nil {
			return err
		}
		payload, err := args.Object("slide")
		if err != nil {
			return err
		}
		number, err := payload.Int("number")
		if err != nil {
			return err
		}
		data, err := optionalString(payload, "data")
		if err != nil {
			return err
		}
		id, err := optionalString(args, "id")
		if err != nil {
			return err
		}
		_, err = e.insertWithID(ctx, location, ir.NewSlide{Number: number, Data: data}, id)
		return err

	case ir.OpOffset:
		amount, err := args.Int("amount")
		if err != nil {
			return err
		}
		_, err = e.Offset(ctx, amount)
		return err

	case ir.OpBlank:
		data, err := optionalString(args, "data")
		if err != nil {
			return err
		}
		id, err := optionalString(args, "id")
		if err != nil {
			return err
		}
		_, err = e.blankWithID(ctx, data, id)
		return err

	case ir.OpDelete:
		_, _, err := e.Delete(ctx)
		return err

	case ir.OpReset:
		_, err := e.Reset(ctx)
		return err

	case ir.OpMove:
		req, err := ir.MoveRequestFromArg(args["request"])
		if err != nil {
			return err
		}
		_, err = e.Move(ctx, req)
		return err

	case ir.OpActive:
		number, err := args.Int("number")
		if err != nil {
			return err
		}
		active, err := args.Bool("active")
		if err != nil {
			return err
		}
		return e.SetActive(ctx, number, active)

	default:
		return fmt.Errorf("unknown operation %q", op)
	}
}

func optionalString(args ir.Args, key string) (string, error) {
	if _, ok := args[key]; !ok {
		return "", nil
	}
	return args.String(key)
}
