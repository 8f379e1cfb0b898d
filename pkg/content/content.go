// Package content holds the raw, engine-agnostic content model produced by
// the processors, together with the binary codec used to bake that model to
// disk and load it back. All streams are little-endian; strings are
// length-prefixed (uint16) UTF-8; pixel buffers are length-prefixed
// (uint32) RGBA, 4 bytes per pixel.
package content

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Codec errors shared by all content streams.
var (
	ErrInvalidMagic       = errors.New("invalid content magic")
	ErrUnsupportedVersion = errors.New("unsupported content version")
	ErrTruncatedData      = errors.New("truncated content data")
	ErrInvalidContent     = errors.New("invalid content")
)

// Version is the current content format version.
const Version uint16 = 1

// PointF is a 2D point in pixels.
type PointF struct {
	X float32
	Y float32
}

// writeHeader writes a 2-byte magic followed by the format version.
func writeHeader(w io.Writer, magic string) error {
	if _, err := io.WriteString(w, magic); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, Version)
}

// readHeader consumes and checks a 2-byte magic and the format version.
func readHeader(r io.Reader, magic string) error {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return fmt.Errorf("%w: reading magic", ErrTruncatedData)
	}
	if string(buf[:]) != magic {
		return fmt.Errorf("%w: expected %q, got %q", ErrInvalidMagic, magic, string(buf[:]))
	}
	var version uint16
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return fmt.Errorf("%w: reading version", ErrTruncatedData)
	}
	if version != Version {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	return nil
}

// writeString writes a uint16 length-prefixed string.
func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint16(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

// readString reads a uint16 length-prefixed string.
func readString(r io.Reader) (string, error) {
	var n uint16
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", fmt.Errorf("%w: reading string length", ErrTruncatedData)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("%w: reading string", ErrTruncatedData)
	}
	return string(buf), nil
}

// writeInt writes an int as int32.
func writeInt(w io.Writer, v int) error {
	return binary.Write(w, binary.LittleEndian, int32(v))
}

// readInt reads an int32 into an int.
func readInt(r io.Reader, what string) (int, error) {
	var v int32
	if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
		return 0, fmt.Errorf("%w: reading %s", ErrTruncatedData, what)
	}
	return int(v), nil
}

// maxPrealloc bounds up-front slice capacity for counts decoded from a
// stream; slices still grow past it through append.
const maxPrealloc = 1024

// readCount reads a record count, rejecting negative values.
func readCount(r io.Reader, what string) (int, error) {
	v, err := readInt(r, what)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: negative %s %d", ErrInvalidContent, what, v)
	}
	return v, nil
}

// preallocCap limits the initial capacity reserved for a decoded count.
func preallocCap(n int) int {
	if n > maxPrealloc {
		return maxPrealloc
	}
	return n
}

// writeBytes writes a uint32 length-prefixed byte buffer.
func writeBytes(w io.Writer, b []byte) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

// readBytes reads a uint32 length-prefixed byte buffer. The buffer grows
// as data arrives, so a corrupt length cannot force a huge allocation.
func readBytes(r io.Reader, what string) ([]byte, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, fmt.Errorf("%w: reading %s length", ErrTruncatedData, what)
	}
	var buf bytes.Buffer
	if _, err := io.CopyN(&buf, r, int64(n)); err != nil {
		return nil, fmt.Errorf("%w: reading %s", ErrTruncatedData, what)
	}
	return buf.Bytes(), nil
}

// writeBool writes a bool as a single byte.
func writeBool(w io.Writer, v bool) error {
	b := byte(0)
	if v {
		b = 1
	}
	return binary.Write(w, binary.LittleEndian, b)
}

// readBool reads a single byte as a bool (non-zero = true).
func readBool(r io.Reader, what string) (bool, error) {
	var b byte
	if err := binary.Read(r, binary.LittleEndian, &b); err != nil {
		return false, fmt.Errorf("%w: reading %s", ErrTruncatedData, what)
	}
	return b != 0, nil
}

// writePointF writes a point as two float32 values.
func writePointF(w io.Writer, p PointF) error {
	if err := binary.Write(w, binary.LittleEndian, p.X); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, p.Y)
}

// readPointF reads a point written by writePointF.
func readPointF(r io.Reader, what string) (PointF, error) {
	var p PointF
	if err := binary.Read(r, binary.LittleEndian, &p.X); err != nil {
		return PointF{}, fmt.Errorf("%w: reading %s", ErrTruncatedData, what)
	}
	if err := binary.Read(r, binary.LittleEndian, &p.Y); err != nil {
		return PointF{}, fmt.Errorf("%w: reading %s", ErrTruncatedData, what)
	}
	return p, nil
}
