package rpsttesting

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	commoncbor "github.com/datatrails/go-datatrails-common/cbor"
	"github.com/fxamacker/cbor/v2"
)

const TraceVersion = 1

var (
	ErrTraceDecode  = errors.New("rpsttesting: trace decode failed")
	ErrTraceVersion = errors.New("rpsttesting: unsupported trace version")
)

type OpKind uint8

const (
	OpInsert OpKind = iota + 1
	OpRemove
	OpQuery
)

func (k OpKind) String() string {
	switch k {
	case OpInsert:
		return "insert"
	case OpRemove:
		return "remove"
	case OpQuery:
		return "query"
	default:
		return fmt.Sprintf("op(%d)", uint8(k))
	}
}

// Op is one recorded operation. Insert and Remove use X and Y; Query uses
// MaxY, MinX and MaxX.
type Op struct {
	Kind OpKind `cbor:"1,keyasint"`
	X    uint64 `cbor:"2,keyasint,omitempty"`
	Y    uint64 `cbor:"3,keyasint,omitempty"`
	MaxY uint64 `cbor:"4,keyasint,omitempty"`
	MinX uint64 `cbor:"5,keyasint,omitempty"`
	MaxX uint64 `cbor:"6,keyasint,omitempty"`
}

// Trace is a replayable record of a stress run.
type Trace struct {
	Version uint8  `cbor:"1,keyasint"`
	RunID   string `cbor:"2,keyasint"`
	Seed    int64  `cbor:"3,keyasint"`
	Ops     []Op   `cbor:"4,keyasint"`
}

// TraceHeader is the leading fields of an encoded trace.
type TraceHeader struct {
	Version uint8  `cbor:"1,keyasint"`
	RunID   string `cbor:"2,keyasint"`
	Seed    int64  `cbor:"3,keyasint"`
}

func NewTraceCodec() (commoncbor.CBORCodec, error) {
	codec, err := commoncbor.NewCBORCodec(
		commoncbor.NewDeterministicEncOpts(),
		commoncbor.NewDeterministicDecOpts(),
	)
	if err != nil {
		return commoncbor.CBORCodec{}, err
	}
	return codec, nil
}

func (tr *Trace) record(op Op) {
	tr.Ops = append(tr.Ops, op)
}

// Encode returns the deterministic CBOR encoding of tr.
func (tr *Trace) Encode(codec commoncbor.CBORCodec) ([]byte, error) {
	return codec.MarshalCBOR(tr)
}

// PeekTraceHeader decodes the version, run id and seed without decoding the
// operations.
func PeekTraceHeader(data []byte) (TraceHeader, error) {
	var h TraceHeader
	if err := cbor.Unmarshal(data, &h); err != nil {
		return TraceHeader{}, fmt.Errorf("%w: %v", ErrTraceDecode, err)
	}
	if h.Version != TraceVersion {
		return TraceHeader{}, fmt.Errorf("%w: %d", ErrTraceVersion, h.Version)
	}
	return h, nil
}

// DecodeTrace decodes a trace produced by Encode.
func DecodeTrace(codec commoncbor.CBORCodec, data []byte) (Trace, error) {
	if _, err := PeekTraceHeader(data); err != nil {
		return Trace{}, err
	}
	var tr Trace
	if err := codec.UnmarshalInto(data, &tr); err != nil {
		return Trace{}, fmt.Errorf("%w: %v", ErrTraceDecode, err)
	}
	return tr, nil
}

// SaveTrace writes tr to dir/<runid>.cbor and returns the path.
func SaveTrace(codec commoncbor.CBORCodec, dir string, tr *Trace) (string, error) {
	data, err := tr.Encode(codec)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, tr.RunID+".cbor")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// LoadTrace reads a trace written by SaveTrace.
func LoadTrace(codec commoncbor.CBORCodec, path string) (Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Trace{}, err
	}
	return DecodeTrace(codec, data)
}
