package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoveRequest(t *testing.T) {
	tests := []struct {
		in   string
		want MoveRequest
	}{
		{"prev", MoveRelative{Direction: Prev}},
		{"next", MoveRelative{Direction: Next}},
		{" NEXT ", MoveRelative{Direction: Next}},
		{"3", MoveAbsolute{Number: 3}},
		{"-1", MoveAbsolute{Number: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMoveRequest(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMoveRequest_Invalid(t *testing.T) {
	for _, in := range []string{"", "up", "1.5", "first"} {
		_, err := ParseMoveRequest(in)
		assert.Error(t, err, in)
	}
}

func TestMoveRequest_ArgRoundTrip(t *testing.T) {
	for _, req := range []MoveRequest{
		MoveAbsolute{Number: 7},
		MoveRelative{Direction: Prev},
		MoveRelative{Direction: Next},
	} {
		back, err := MoveRequestFromArg(req.Arg())
		require.NoError(t, err)
		assert.Equal(t, req, back)
	}
}

func TestMoveRequestFromArg_Unsupported(t *testing.T) {
	for _, arg := range []any{true, "3", "-1", "Next", " prev", "", 2.5} {
		_, err := MoveRequestFromArg(arg)
		assert.Error(t, err, "arg %#v", arg)
	}
}

func TestMoveRequestFromArg_Integers(t *testing.T) {
	req, err := MoveRequestFromArg(int64(4))
	require.NoError(t, err)
	assert.Equal(t, MoveAbsolute{Number: 4}, req)

	req, err = MoveRequestFromArg(4)
	require.NoError(t, err)
	assert.Equal(t, MoveAbsolute{Number: 4}, req)
}

func TestDirection(t *testing.T) {
	assert.Equal(t, "prev", Prev.String())
	assert.Equal(t, "next", Next.String())
	assert.Equal(t, int64(-1), Prev.Step())
	assert.Equal(t, int64(1), Next.Step())
	assert.Equal(t, "Direction(9)", Direction(9).String())
}
