package slicerb

import (
	"bytes"
	"encoding/binary"
	"encoding/json"

	"github.com/fxamacker/cbor/v2"
)

var (
	_ Codec[[]byte] = new(BytesCodec)
	_ Codec[string] = new(StringCodec)
	_ Codec[uint64] = new(Uint64Codec)
	_ Codec[string] = new(JsonTypeCodec[string])
	_ Codec[string] = new(CborTypeCodec[string])
)

// Codec encodes values into node cells. Marshal must be deterministic, equal
// values always produce equal bytes. Unmarshal receives the whole cell, the
// encoded bytes plus zero padding up to the cell width.
type Codec[T any] interface {
	Unmarshal(data []byte, v *T) error
	Marshal(v *T) ([]byte, error)
}

// BytesCodec stores the raw bytes. Unmarshal yields the full cell including
// padding, so it fits fixed-width payloads best.
type BytesCodec struct{}

func (b BytesCodec) Unmarshal(data []byte, v *[]byte) error {
	*v = data
	return nil
}

func (b BytesCodec) Marshal(v *[]byte) ([]byte, error) {
	return *v, nil
}

// StringCodec stores the raw string bytes and strips the cell padding on the
// way out. Strings with trailing NUL bytes do not round-trip.
type StringCodec struct{}

func (s StringCodec) Unmarshal(data []byte, v *string) error {
	*v = string(bytes.TrimRight(data, "\x00"))
	return nil
}

func (s StringCodec) Marshal(v *string) ([]byte, error) {
	return []byte(*v), nil
}

// Uint64Codec is big-endian, cell byte order equals numeric order
type Uint64Codec struct{}

func (u Uint64Codec) Unmarshal(data []byte, v *uint64) error {
	*v = binary.BigEndian.Uint64(data)
	return nil
}

func (u Uint64Codec) Marshal(v *uint64) (b []byte, err error) {
	b = binary.BigEndian.AppendUint64(b, *v)
	return
}

type JsonTypeCodec[T any] struct{}

func (j JsonTypeCodec[T]) Unmarshal(data []byte, v *T) error {
	// 解码单个值, 不能消费掉cell尾部的零填充
	return json.NewDecoder(bytes.NewReader(data)).Decode(v)
}

func (j JsonTypeCodec[T]) Marshal(v *T) ([]byte, error) {
	return json.Marshal(v)
}

var cborEncMode, _ = cbor.CanonicalEncOptions().EncMode()

// CborTypeCodec encodes with canonical CBOR, map keys are sorted so equal
// values always map to equal cells. Use it for structured keys where
// JsonTypeCodec gives no ordering guarantee.
type CborTypeCodec[T any] struct{}

func (c CborTypeCodec[T]) Unmarshal(data []byte, v *T) error {
	return cbor.NewDecoder(bytes.NewReader(data)).Decode(v)
}

func (c CborTypeCodec[T]) Marshal(v *T) ([]byte, error) {
	return cborEncMode.Marshal(v)
}
