package frame

import (
	"bytes"
	"encoding/binary"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/YuminosukeSato/tabframe/pkg/compress"
	"github.com/YuminosukeSato/tabframe/pkg/errors"
	"github.com/YuminosukeSato/tabframe/stype"
	"github.com/YuminosukeSato/tabframe/tensor"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFrame(t *testing.T) *TensorFrame {
	t.Helper()
	num, err := tensor.NewFloat([]float64{25, 1.6, 30, 1.8, 45, 1.7}, []int{3, 2}, tensor.CPU)
	require.NoError(t, err)
	cat, err := tensor.NewInt([]int64{0, 1, 0}, []int{3, 1}, tensor.CPU)
	require.NoError(t, err)
	y, err := tensor.NewInt([]int64{0, 1, 0}, []int{3}, tensor.CPU)
	require.NoError(t, err)

	tf, err := New(3,
		map[stype.Type]tensor.Tensor{stype.Numerical: num, stype.Categorical: cat},
		map[stype.Type][]string{stype.Numerical: {"age", "height"}, stype.Categorical: {"city"}},
		y,
	)
	require.NoError(t, err)
	return tf
}

func TestNew_Validation(t *testing.T) {
	num, _ := tensor.NewFloat([]float64{1, 2, 3}, []int{3, 1}, tensor.CPU)
	y2, _ := tensor.NewInt([]int64{0, 1}, []int{2}, tensor.CPU)

	tests := []struct {
		name  string
		rows  int
		feat  map[stype.Type]tensor.Tensor
		names map[stype.Type][]string
		y     tensor.Tensor
	}{
		{"names missing", 3, map[stype.Type]tensor.Tensor{stype.Numerical: num}, map[stype.Type][]string{stype.Categorical: {"a"}}, nil},
		{"column count", 3, map[stype.Type]tensor.Tensor{stype.Numerical: num}, map[stype.Type][]string{stype.Numerical: {"a", "b"}}, nil},
		{"row count", 4, map[stype.Type]tensor.Tensor{stype.Numerical: num}, map[stype.Type][]string{stype.Numerical: {"a"}}, nil},
		{"target rows", 3, map[stype.Type]tensor.Tensor{stype.Numerical: num}, map[stype.Type][]string{stype.Numerical: {"a"}}, y2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.rows, tt.feat, tt.names, tt.y)
			assert.Error(t, err)
		})
	}

	empty, err := New(5, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, empty.NumRows())
	assert.Empty(t, empty.Types())
}

func TestAccessors_ReturnCopies(t *testing.T) {
	tf := sampleFrame(t)

	names := tf.ColNames(stype.Numerical)
	names[0] = "mutated"
	assert.Equal(t, []string{"age", "height"}, tf.ColNames(stype.Numerical))

	byType := tf.ColNamesByType()
	byType[stype.Categorical][0] = "mutated"
	assert.Equal(t, []string{"city"}, tf.ColNames(stype.Categorical))

	assert.Equal(t, []stype.Type{stype.Categorical, stype.Numerical}, tf.Types())
	assert.Equal(t, 3, tf.NumCols())
	assert.True(t, tf.HasTarget())
}

func TestIndex(t *testing.T) {
	tf := sampleFrame(t)

	sub, err := tf.Index([]int{2, 2, 0})
	require.NoError(t, err)
	assert.Equal(t, 3, sub.NumRows())

	num, _ := sub.Feat(stype.Numerical)
	assert.Equal(t, []float64{45, 1.7, 45, 1.7, 25, 1.6}, num.(*tensor.Float).Data())
	assert.Equal(t, []int64{0, 0, 0}, sub.Y().(*tensor.Int).Data())

	_, err = tf.Index([]int{3})
	var idxErr *errors.IndexError
	assert.True(t, errors.As(err, &idxErr))
}

func assertFramesEqual(t *testing.T, want, got *TensorFrame) {
	t.Helper()
	require.Equal(t, want.NumRows(), got.NumRows())
	if diff := cmp.Diff(want.ColNamesByType(), got.ColNamesByType()); diff != "" {
		t.Errorf("column names mismatch (-want +got):\n%s", diff)
	}
	for _, st := range want.Types() {
		w, _ := want.Feat(st)
		g, ok := got.Feat(st)
		require.True(t, ok, st)
		assert.Equal(t, w, g, st)
	}
	assert.Equal(t, want.Y(), got.Y())
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	tf := sampleFrame(t)

	for _, codec := range []compress.Type{compress.None, compress.Zstd, compress.S2, compress.LZ4} {
		t.Run(codec.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Save(&buf, tf, WithCodec(codec)))

			loaded, err := Load(&buf)
			require.NoError(t, err)
			assertFramesEqual(t, tf, loaded)
		})
	}
}

func TestSaveLoad_File(t *testing.T) {
	tf := sampleFrame(t)
	path := filepath.Join(t.TempDir(), "frame.tbfr")

	require.NoError(t, SaveFile(path, tf))
	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assertFramesEqual(t, tf, loaded)
}

func TestSaveLoad_EmptyFrame(t *testing.T) {
	num, _ := tensor.NewFloat(nil, []int{0, 1}, tensor.CPU)
	tf, err := New(0, map[stype.Type]tensor.Tensor{stype.Numerical: num}, map[stype.Type][]string{stype.Numerical: {"a"}}, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, tf))
	loaded, err := Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.NumRows())
	assert.False(t, loaded.HasTarget())
}

func TestLoad_Corruption(t *testing.T) {
	tf := sampleFrame(t)
	var buf bytes.Buffer
	require.NoError(t, Save(&buf, tf))
	data := buf.Bytes()

	flipped := append([]byte(nil), data...)
	flipped[len(flipped)-1] ^= 0xff
	_, err := Load(bytes.NewReader(flipped))
	assert.True(t, errors.Is(err, errors.ErrChecksumMismatch), "got %v", err)

	badMagic := append([]byte(nil), data...)
	badMagic[0] = 'X'
	_, err = Load(bytes.NewReader(badMagic))
	assert.True(t, errors.Is(err, errors.ErrUnknownFormat), "got %v", err)

	_, err = Load(bytes.NewReader(data[:10]))
	assert.True(t, errors.Is(err, errors.ErrUnknownFormat), "got %v", err)

	_, err = Load(bytes.NewReader(data[:headerSize+1]))
	assert.True(t, errors.Is(err, errors.ErrUnknownFormat), "got %v", err)
}

func bareHeader(length uint64) []byte {
	h := make([]byte, headerSize)
	copy(h, magic[:])
	h[4] = formatVersion
	h[5] = byte(compress.None)
	binary.LittleEndian.PutUint64(h[16:24], length)
	return h
}

func TestLoad_DeclaredLength(t *testing.T) {
	_, err := Load(bytes.NewReader(bareHeader(1 << 40)))
	assert.True(t, errors.Is(err, errors.ErrUnknownFormat), "length above the cap: got %v", err)

	// A header that claims a large payload but carries none must not
	// allocate the claimed size.
	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	_, err = Load(bytes.NewReader(bareHeader(1 << 29)))
	runtime.ReadMemStats(&after)

	assert.True(t, errors.Is(err, errors.ErrUnknownFormat), "truncated payload: got %v", err)
	assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(16<<20))
}
