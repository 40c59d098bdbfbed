package ipopt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodec_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	enc.FloatCol("x", []float64{1.5, -2.25, 0})
	enc.IntCol("dims", []int64{3, 2, 10})
	enc.IntCol("ref", []int64{-1})
	enc.FloatCol("empty", nil)
	require.NoError(t, enc.Err())

	floatCols, intCols, err := NewDecoder(&buf).ReadAll()
	require.NoError(t, err)
	require.Equal(t, []float64{1.5, -2.25, 0}, floatCols["x"])
	require.Empty(t, floatCols["empty"])
	require.Equal(t, []int64{3, 2, 10}, intCols["dims"])
	require.Equal(t, []int64{-1}, intCols["ref"])
}

func TestCodec_BadMagic(t *testing.T) {
	_, _, err := NewDecoder(bytes.NewReader([]byte("NOPE\x01"))).ReadAll()
	require.ErrorIs(t, err, ErrBadStream)
}

func TestCodec_TruncatedColumn(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	enc.FloatCol("x", []float64{1, 2, 3})
	require.NoError(t, enc.Err())

	// Drop the last value's bytes.
	raw := buf.Bytes()
	_, _, err := NewDecoder(bytes.NewReader(raw[:len(raw)-4])).ReadAll()
	require.ErrorIs(t, err, ErrBadStream)
}

func TestCodec_EmptyStream(t *testing.T) {
	_, _, err := NewDecoder(bytes.NewReader(nil)).ReadAll()
	require.ErrorIs(t, err, ErrBadStream)
}
