package compress

import (
	"github.com/YuminosukeSato/tabframe/pkg/errors"
	"github.com/klauspost/compress/s2"
)

type s2Codec struct{}

func (s2Codec) Compress(data []byte) ([]byte, error) {
	return s2.Encode(nil, data), nil
}

func (s2Codec) Decompress(data []byte) ([]byte, error) {
	n, err := s2.DecodedLen(data)
	if err != nil {
		return nil, errors.Wrap(err, "s2 decompress")
	}
	if n > MaxDecodedSize {
		return nil, tooLarge("s2", uint64(n))
	}
	out, err := s2.Decode(nil, data)
	if err != nil {
		return nil, errors.Wrap(err, "s2 decompress")
	}
	return out, nil
}
