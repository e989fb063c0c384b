package compress

import (
	"sync"

	"github.com/YuminosukeSato/tabframe/pkg/errors"
	"github.com/pierrec/lz4/v4"
)

var lz4Compressors = sync.Pool{
	New: func() any { return &lz4.Compressor{} },
}

type lz4Codec struct{}

func (lz4Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dst := make([]byte, lz4.CompressBlockBound(len(data)))

	c := lz4Compressors.Get().(*lz4.Compressor)
	defer lz4Compressors.Put(c)

	n, err := c.CompressBlock(data, dst)
	if err != nil {
		return nil, errors.Wrap(err, "lz4 compress")
	}
	return dst[:n], nil
}

// Decompress grows the output buffer until the block fits, since lz4 blocks
// do not record their decoded size.
func (lz4Codec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	for size := len(data) * 4; size <= MaxDecodedSize; size *= 2 {
		buf := make([]byte, size)
		n, err := lz4.UncompressBlock(data, buf)
		if err == nil {
			return buf[:n], nil
		}
		if !errors.Is(err, lz4.ErrInvalidSourceShortBuffer) {
			return nil, errors.Wrap(err, "lz4 decompress")
		}
	}
	return nil, errors.Wrap(lz4.ErrInvalidSourceShortBuffer, "lz4 decompress")
}
