// Package wire implements the stable binary encoding spec.md §4.1
// requires for interpolators to round-trip through the shared KV
// cache. It mirrors the envelope shape of the teacher's
// storage/grid_cache.go (version + payload + CRC32 checksum), but the
// payload itself is a hand-rolled flat binary layout rather than a
// FlatBuffers table: FlatBuffers' generated accessor code requires
// running `flatc` against a schema, which isn't reproducible in this
// environment (see DESIGN.md). The envelope discipline — versioned,
// checksummed, rejecting truncated or corrupt payloads — is kept.
package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
)

const wireVersion uint16 = 1

// Interpolator is the on-the-wire representation of an
// interp.Interpolator: everything needed to reconstruct the
// triangulation and re-evaluate it, without depending on the interp
// package's internal types.
type Interpolator struct {
	NDim         int32
	Transform    []float64 // len == NumSimplices * (NDim+1) * NDim
	Simplices    []int32   // len == NumSimplices * (NDim+1)
	VertexValues []float64
	GMin         float64
	GMax         float64
	MissingVal   float64
}

var (
	ErrTruncated = fmt.Errorf("wire: truncated payload")
	ErrChecksum  = fmt.Errorf("wire: checksum mismatch")
	ErrVersion   = fmt.Errorf("wire: unsupported version")
)

// EncodeInterpolator serializes v into the versioned, checksummed
// binary envelope.
func EncodeInterpolator(v *Interpolator) ([]byte, error) {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.BigEndian, wireVersion); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, v.NDim); err != nil {
		return nil, err
	}
	if err := writeFloat64Slice(&buf, v.Transform); err != nil {
		return nil, err
	}
	if err := writeInt32Slice(&buf, v.Simplices); err != nil {
		return nil, err
	}
	if err := writeFloat64Slice(&buf, v.VertexValues); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, v.GMin); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, v.GMax); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, v.MissingVal); err != nil {
		return nil, err
	}

	payload := buf.Bytes()
	checksum := crc32.ChecksumIEEE(payload)

	out := make([]byte, len(payload)+4)
	copy(out, payload)
	binary.BigEndian.PutUint32(out[len(payload):], checksum)
	return out, nil
}

// DecodeInterpolator parses and validates the envelope produced by
// EncodeInterpolator.
func DecodeInterpolator(data []byte) (*Interpolator, error) {
	if len(data) < 4 {
		return nil, ErrTruncated
	}
	payload := data[:len(data)-4]
	wantChecksum := binary.BigEndian.Uint32(data[len(data)-4:])
	if crc32.ChecksumIEEE(payload) != wantChecksum {
		return nil, ErrChecksum
	}

	r := bytes.NewReader(payload)
	var version uint16
	if err := binary.Read(r, binary.BigEndian, &version); err != nil {
		return nil, ErrTruncated
	}
	if version != wireVersion {
		return nil, ErrVersion
	}

	v := &Interpolator{}
	if err := binary.Read(r, binary.BigEndian, &v.NDim); err != nil {
		return nil, ErrTruncated
	}
	var err error
	if v.Transform, err = readFloat64Slice(r); err != nil {
		return nil, err
	}
	if v.Simplices, err = readInt32Slice(r); err != nil {
		return nil, err
	}
	if v.VertexValues, err = readFloat64Slice(r); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.BigEndian, &v.GMin); err != nil {
		return nil, ErrTruncated
	}
	if err := binary.Read(r, binary.BigEndian, &v.GMax); err != nil {
		return nil, ErrTruncated
	}
	if err := binary.Read(r, binary.BigEndian, &v.MissingVal); err != nil {
		return nil, ErrTruncated
	}
	return v, nil
}

func writeFloat64Slice(buf *bytes.Buffer, s []float64) error {
	if err := binary.Write(buf, binary.BigEndian, int32(len(s))); err != nil {
		return err
	}
	return binary.Write(buf, binary.BigEndian, s)
}

func writeInt32Slice(buf *bytes.Buffer, s []int32) error {
	if err := binary.Write(buf, binary.BigEndian, int32(len(s))); err != nil {
		return err
	}
	return binary.Write(buf, binary.BigEndian, s)
}

func readFloat64Slice(r *bytes.Reader) ([]float64, error) {
	var n int32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return nil, ErrTruncated
	}
	out := make([]float64, n)
	if err := binary.Read(r, binary.BigEndian, out); err != nil {
		return nil, ErrTruncated
	}
	return out, nil
}

func readInt32Slice(r *bytes.Reader) ([]int32, error) {
	var n int32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return nil, ErrTruncated
	}
	out := make([]int32, n)
	if err := binary.Read(r, binary.BigEndian, out); err != nil {
		return nil, ErrTruncated
	}
	return out, nil
}
