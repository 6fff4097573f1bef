package format

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/hardenkit/internal/testutil"
	"github.com/joshuapare/hardenkit/pkg/types"
)

func TestSentinelSize(t *testing.T) {
	require.Len(t, Sentinel, SentinelSize)
	require.Equal(t, testutil.Sentinel, string(Sentinel))
}

func TestFindWireSuccess(t *testing.T) {
	data := testutil.FuseBinary(testutil.DefaultWire)

	r, err := FindWire(data)
	require.NoError(t, err)
	require.Equal(t, len(testutil.DefaultWire), r.Len())
	// 64 filler bytes, 32 sentinel bytes, version, length.
	require.Equal(t, 64+SentinelSize+HeaderSize, r.Start)
	require.Equal(t, testutil.DefaultWire, data[r.Start:r.End])
}

func TestFindWireExactLength(t *testing.T) {
	for _, n := range []int{0, 1, 4, 8, 255} {
		wire := make([]byte, n)
		for i := range wire {
			wire[i] = FuseEnabled
		}
		data := testutil.WireSection(1, wire)

		r, err := FindWire(data)
		require.NoError(t, err)
		require.Equal(t, SentinelSize+HeaderSize, r.Start, "wire starts right after the length byte")
		require.Equal(t, n, r.Len())
	}
}

func TestFindWireFirstMatchWins(t *testing.T) {
	data := append(testutil.WireSection(1, []byte("1")), testutil.WireSection(1, []byte("000"))...)

	r, err := FindWire(data)
	require.NoError(t, err)
	require.Equal(t, SentinelSize+HeaderSize, r.Start)
	require.Equal(t, 1, r.Len())
}

func TestFindWireErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, types.ErrNoSentinel},
		{"no sentinel", []byte("not an electron app"), types.ErrNoSentinel},
		{"truncated sentinel", []byte(testutil.Sentinel[:31]), types.ErrNoSentinel},
		{"no version", []byte(testutil.Sentinel), types.ErrNoFuseVersion},
		{"no length", append([]byte(testutil.Sentinel), 1), types.ErrNoFuseLength},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FindWire(tt.data)
			require.Error(t, err)
			require.ErrorIs(t, err, tt.want)

			var pe *types.PatcherError
			require.True(t, errors.As(err, &pe))
			require.Equal(t, types.ErrKindBinary, pe.Kind)
		})
	}
}

func TestFindWireUnsupportedVersion(t *testing.T) {
	data := testutil.WireSection(2, []byte("1111"))

	_, err := FindWire(data)
	require.ErrorIs(t, err, types.ErrFuseVersion)
	require.NotErrorIs(t, err, types.ErrNoSentinel)

	var pe *types.PatcherError
	require.True(t, errors.As(err, &pe))
	require.Equal(t, uint8(1), pe.Expected)
	require.Equal(t, uint8(2), pe.Found)
}

func TestFindWireDoesNotValidateLength(t *testing.T) {
	// The length byte claims 200 bytes but only 2 follow.
	data := append([]byte(testutil.Sentinel), 1, 200, '1', '0')

	r, err := FindWire(data)
	require.NoError(t, err)
	require.Equal(t, 200, r.Len())
	require.Greater(t, r.End, len(data))

	wire, ok := Wire(data, r)
	require.False(t, ok, "a wire running past the binary must not resolve")
	require.Nil(t, wire)
}

func TestWireStartPastEnd(t *testing.T) {
	w, ok := Wire([]byte("abc"), types.Range{Start: 10, End: 12})
	require.False(t, ok)
	require.Nil(t, w)

	w, ok = Wire([]byte("abc"), types.Range{Start: 1, End: 4})
	require.False(t, ok, "end past the binary")
	require.Nil(t, w)

	w, ok = Wire([]byte("abc"), types.Range{Start: 1, End: 3})
	require.True(t, ok)
	require.Equal(t, []byte("bc"), w)
}
