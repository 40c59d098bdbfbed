// SPDX-License-Identifier: MIT

package ipopt

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// Wire format, little-endian throughout:
//
//	header:  magic "GOPF", version u8
//	column:  kind u8 (0 float64, 1 int64), name-length u16, name bytes,
//	         count u32, count payload values
//
// The stream ends at EOF; column order is not significant.
const (
	codecMagic   = "GOPF"
	codecVersion = 1

	kindFloat = 0
	kindInt   = 1

	// maxColumnLen caps a single column so a corrupt count cannot drive an
	// unbounded allocation.
	maxColumnLen = 1 << 24
)

// ErrBadStream reports a malformed or truncated columnar stream.
var ErrBadStream = errors.New("ipopt: malformed columnar stream")

// Encoder writes named columns to w. It implements solver.ColumnWriter and
// is sticky on error: after the first write failure every call is a no-op
// and Err reports the failure.
type Encoder struct {
	w   io.Writer
	err error
}

// NewEncoder writes the stream header and returns the encoder.
func NewEncoder(w io.Writer) *Encoder {
	e := &Encoder{w: w}
	e.write([]byte(codecMagic))
	e.write([]byte{codecVersion})

	return e
}

// FloatCol appends a float64 column.
func (e *Encoder) FloatCol(name string, vals []float64) {
	e.header(kindFloat, name, len(vals))
	for _, v := range vals {
		e.writeU64(math.Float64bits(v))
	}
}

// IntCol appends an int64 column.
func (e *Encoder) IntCol(name string, vals []int64) {
	e.header(kindInt, name, len(vals))
	for _, v := range vals {
		e.writeU64(uint64(v))
	}
}

// Err returns the first write error, if any.
func (e *Encoder) Err() error { return e.err }

func (e *Encoder) header(kind byte, name string, count int) {
	var nb [2]byte
	binary.LittleEndian.PutUint16(nb[:], uint16(len(name)))
	var cb [4]byte
	binary.LittleEndian.PutUint32(cb[:], uint32(count))

	e.write([]byte{kind})
	e.write(nb[:])
	e.write([]byte(name))
	e.write(cb[:])
}

func (e *Encoder) writeU64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	e.write(b[:])
}

func (e *Encoder) write(b []byte) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.Write(b)
}

// Decoder reads a full columnar stream produced by the native solver (same
// format as the Encoder's).
type Decoder struct {
	r *bufio.Reader
}

// NewDecoder wraps r; the header is checked on the first ReadAll.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// ReadAll consumes the stream to EOF and returns the columns keyed by name.
func (d *Decoder) ReadAll() (floatCols map[string][]float64, intCols map[string][]int64, err error) {
	head := make([]byte, len(codecMagic)+1)
	if _, err := io.ReadFull(d.r, head); err != nil {
		return nil, nil, fmt.Errorf("%w: missing header", ErrBadStream)
	}
	if string(head[:len(codecMagic)]) != codecMagic || head[len(codecMagic)] != codecVersion {
		return nil, nil, fmt.Errorf("%w: bad magic or version", ErrBadStream)
	}

	floatCols = make(map[string][]float64)
	intCols = make(map[string][]int64)
	for {
		kind, err := d.r.ReadByte()
		if err == io.EOF {
			return floatCols, intCols, nil
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrBadStream, err)
		}

		name, count, err := d.columnHeader()
		if err != nil {
			return nil, nil, err
		}

		switch kind {
		case kindFloat:
			col := make([]float64, count)
			for i := range col {
				v, err := d.readU64()
				if err != nil {
					return nil, nil, err
				}
				col[i] = math.Float64frombits(v)
			}
			floatCols[name] = col
		case kindInt:
			col := make([]int64, count)
			for i := range col {
				v, err := d.readU64()
				if err != nil {
					return nil, nil, err
				}
				col[i] = int64(v)
			}
			intCols[name] = col
		default:
			return nil, nil, fmt.Errorf("%w: unknown column kind %d", ErrBadStream, kind)
		}
	}
}

func (d *Decoder) columnHeader() (name string, count int, err error) {
	var nb [2]byte
	if _, err := io.ReadFull(d.r, nb[:]); err != nil {
		return "", 0, fmt.Errorf("%w: truncated column header", ErrBadStream)
	}
	nameBytes := make([]byte, binary.LittleEndian.Uint16(nb[:]))
	if _, err := io.ReadFull(d.r, nameBytes); err != nil {
		return "", 0, fmt.Errorf("%w: truncated column name", ErrBadStream)
	}
	var cb [4]byte
	if _, err := io.ReadFull(d.r, cb[:]); err != nil {
		return "", 0, fmt.Errorf("%w: truncated column count", ErrBadStream)
	}
	n := binary.LittleEndian.Uint32(cb[:])
	if n > maxColumnLen {
		return "", 0, fmt.Errorf("%w: column %q too long", ErrBadStream, string(nameBytes))
	}

	return string(nameBytes), int(n), nil
}

func (d *Decoder) readU64() (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(d.r, b[:]); err != nil {
		return 0, fmt.Errorf("%w: truncated column data", ErrBadStream)
	}

	return binary.LittleEndian.Uint64(b[:]), nil
}
