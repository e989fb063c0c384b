// Package compress provides the block codecs used to store tensor frames.
//
// Each codec compresses a whole payload at once. Codecs are stateless values
// and safe for concurrent use; encoder state is pooled internally.
package compress

import (
	"fmt"
	"strings"

	"github.com/YuminosukeSato/tabframe/pkg/errors"
)

// Type identifies a codec in persisted data. Values are part of the on-disk
// format and must not change.
type Type uint8

const (
	None Type = iota
	Zstd
	S2
	LZ4
)

func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case Zstd:
		return "zstd"
	case S2:
		return "s2"
	case LZ4:
		return "lz4"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// ParseType parses a codec name.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return None, nil
	case "zstd":
		return Zstd, nil
	case "s2":
		return S2, nil
	case "lz4":
		return LZ4, nil
	default:
		return None, errors.NewValidationError("codec", "unknown compression codec", s)
	}
}

// MaxDecodedSize bounds the output of Decompress for every codec.
const MaxDecodedSize = 1 << 30

func tooLarge(codec string, n uint64) error {
	return errors.Newf("%s decompress: decoded size %d exceeds %d bytes", codec, n, uint64(MaxDecodedSize))
}

// Codec compresses and decompresses complete payloads. Returned slices are
// newly allocated and owned by the caller.
type Codec interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

var codecs = map[Type]Codec{
	None: noop{},
	Zstd: zstdCodec{},
	S2:   s2Codec{},
	LZ4:  lz4Codec{},
}

// Get returns the codec for t.
func Get(t Type) (Codec, error) {
	c, ok := codecs[t]
	if !ok {
		return nil, errors.Wrapf(errors.ErrUnknownFormat, "compression codec %s", t)
	}
	return c, nil
}

type noop struct{}

func (noop) Compress(data []byte) ([]byte, error) {
	return append([]byte(nil), data...), nil
}

func (noop) Decompress(data []byte) ([]byte, error) {
	return append([]byte(nil), data...), nil
}
