package frame

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/YuminosukeSato/tabframe/pkg/compress"
	"github.com/YuminosukeSato/tabframe/pkg/errors"
	"github.com/YuminosukeSato/tabframe/pkg/log"
	"github.com/YuminosukeSato/tabframe/stype"
	"github.com/YuminosukeSato/tabframe/tensor"
	"github.com/cespare/xxhash/v2"
)

// 保存形式:
//
//	magic [4]byte "TBFR"
//	version uint8
//	codec   uint8 (compress.Type)
//	reserved [2]byte
//	checksum uint64 (xxhash64 of the compressed payload)
//	length   uint64 (compressed payload size)
//	payload  (compressed gob of frameRecord)
var magic = [4]byte{'T', 'B', 'F', 'R'}

const (
	formatVersion = 1
	headerSize    = 4 + 1 + 1 + 2 + 8 + 8
	// ヘッダが宣言できるペイロード長の上限
	maxPayload = compress.MaxDecodedSize
)

type tensorRecord struct {
	DType  tensor.DType
	Shape  []int
	Device string
	Floats []float64
	Ints   []int64
}

type frameRecord struct {
	NumRows  int
	Types    []stype.Type
	Feats    []tensorRecord
	ColNames [][]string
	HasY     bool
	Y        tensorRecord
}

type saveOptions struct {
	codec compress.Type
}

// SaveOption はSaveの設定を変更する
type SaveOption func(*saveOptions)

// WithCodec は圧縮コーデックを指定する (デフォルト: zstd)
func WithCodec(c compress.Type) SaveOption {
	return func(o *saveOptions) {
		o.codec = c
	}
}

// Save はTensorFrameをio.Writerに保存する
//
// パラメータ:
//   - w: 保存先のWriter
//   - tf: 保存するフレーム
//   - opts: 圧縮コーデックなどのオプション
//
// 戻り値:
//   - error: 保存に失敗した場合のエラー
//
// 使用例:
//
//	tf, _ := ds.TensorFrame()
//	err := frame.Save(f, tf, frame.WithCodec(compress.LZ4))
func Save(w io.Writer, tf *TensorFrame, opts ...SaveOption) error {
	start := time.Now()
	o := saveOptions{codec: compress.Zstd}
	for _, opt := range opts {
		opt(&o)
	}
	codec, err := compress.Get(o.codec)
	if err != nil {
		return err
	}

	rec, err := toRecord(tf)
	if err != nil {
		return err
	}
	var raw bytes.Buffer
	if err := gob.NewEncoder(&raw).Encode(rec); err != nil {
		return errors.Wrap(err, "failed to encode tensor frame")
	}
	// Load が読めないサイズは書かない
	if raw.Len() > compress.MaxDecodedSize {
		return errors.NewValueError("Save", fmt.Sprintf("encoded tensor frame is %d bytes, limit is %d", raw.Len(), compress.MaxDecodedSize))
	}
	payload, err := codec.Compress(raw.Bytes())
	if err != nil {
		return errors.Wrap(err, "failed to compress tensor frame")
	}

	var header [headerSize]byte
	copy(header[0:4], magic[:])
	header[4] = formatVersion
	header[5] = byte(o.codec)
	binary.LittleEndian.PutUint64(header[8:16], xxhash.Sum64(payload))
	binary.LittleEndian.PutUint64(header[16:24], uint64(len(payload)))

	if _, err := w.Write(header[:]); err != nil {
		return errors.Wrap(err, "failed to write header")
	}
	if _, err := w.Write(payload); err != nil {
		return errors.Wrap(err, "failed to write payload")
	}

	log.GetLoggerWithName("frame").Debug("Saved tensor frame",
		log.OperationKey, log.OperationSave,
		log.SamplesKey, tf.NumRows(),
		log.DataSizeKey, headerSize+len(payload),
		"codec", o.codec.String(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// Load はio.ReaderからTensorFrameを読み込む
//
// マジックナンバーやバージョンが一致しない場合は ErrUnknownFormat、
// チェックサムが一致しない場合は ErrChecksumMismatch を返す。
func Load(r io.Reader) (*TensorFrame, error) {
	var header [headerSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, errors.Wrap(errors.ErrUnknownFormat, "failed to read header: "+err.Error())
	}
	if !bytes.Equal(header[0:4], magic[:]) {
		return nil, errors.Wrap(errors.ErrUnknownFormat, "not a tensor frame")
	}
	if header[4] != formatVersion {
		return nil, errors.Wrapf(errors.ErrUnknownFormat, "unsupported tensor frame version %d", header[4])
	}
	codecType := compress.Type(header[5])
	codec, err := compress.Get(codecType)
	if err != nil {
		return nil, err
	}
	checksum := binary.LittleEndian.Uint64(header[8:16])
	length := binary.LittleEndian.Uint64(header[16:24])
	if length > maxPayload {
		return nil, errors.Wrapf(errors.ErrUnknownFormat, "payload length %d is too large", length)
	}

	// 実際に存在するバイト分だけメモリを確保する
	payload, err := io.ReadAll(io.LimitReader(r, int64(length)))
	if err != nil {
		return nil, errors.Wrap(err, "failed to read payload")
	}
	if uint64(len(payload)) != length {
		return nil, errors.Wrapf(errors.ErrUnknownFormat, "truncated payload: header declares %d bytes, got %d", length, len(payload))
	}
	if xxhash.Sum64(payload) != checksum {
		return nil, errors.WithStack(errors.ErrChecksumMismatch)
	}

	raw, err := codec.Decompress(payload)
	if err != nil {
		return nil, err
	}
	var rec frameRecord
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&rec); err != nil {
		return nil, errors.Wrap(err, "failed to decode tensor frame")
	}
	tf, err := fromRecord(rec)
	if err != nil {
		return nil, err
	}

	log.GetLoggerWithName("frame").Debug("Loaded tensor frame",
		log.OperationKey, log.OperationLoad,
		log.SamplesKey, tf.NumRows(),
		log.DataSizeKey, headerSize+len(payload),
		"codec", codecType.String(),
	)
	return tf, nil
}

// SaveFile はTensorFrameをファイルに保存する
func SaveFile(filename string, tf *TensorFrame, opts ...SaveOption) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "failed to close file")
		}
	}()

	bw := bufio.NewWriter(file)
	if err := Save(bw, tf, opts...); err != nil {
		return err
	}
	return bw.Flush()
}

// LoadFile はファイルからTensorFrameを読み込む
func LoadFile(filename string) (*TensorFrame, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	defer file.Close()

	return Load(bufio.NewReader(file))
}

func toTensorRecord(t tensor.Tensor) (tensorRecord, error) {
	rec := tensorRecord{DType: t.DType(), Shape: t.Shape(), Device: t.Device().String()}
	switch x := t.(type) {
	case *tensor.Float:
		rec.Floats = x.Data()
	case *tensor.Int:
		rec.Ints = x.Data()
	default:
		return rec, errors.NewValueError("frame.Save", "unsupported tensor implementation")
	}
	return rec, nil
}

func fromTensorRecord(rec tensorRecord) (tensor.Tensor, error) {
	device := tensor.Device(rec.Device)
	switch rec.DType {
	case tensor.Float64:
		return tensor.NewFloat(rec.Floats, rec.Shape, device)
	case tensor.Int64:
		return tensor.NewInt(rec.Ints, rec.Shape, device)
	default:
		return nil, errors.Wrapf(errors.ErrUnknownFormat, "unknown dtype %s", rec.DType)
	}
}

func toRecord(tf *TensorFrame) (frameRecord, error) {
	rec := frameRecord{NumRows: tf.numRows, Types: tf.Types()}
	for _, t := range rec.Types {
		tr, err := toTensorRecord(tf.featByType[t])
		if err != nil {
			return rec, err
		}
		rec.Feats = append(rec.Feats, tr)
		rec.ColNames = append(rec.ColNames, tf.ColNames(t))
	}
	if tf.y != nil {
		tr, err := toTensorRecord(tf.y)
		if err != nil {
			return rec, err
		}
		rec.HasY, rec.Y = true, tr
	}
	return rec, nil
}

func fromRecord(rec frameRecord) (*TensorFrame, error) {
	if len(rec.Feats) != len(rec.Types) || len(rec.ColNames) != len(rec.Types) {
		return nil, errors.Wrap(errors.ErrUnknownFormat, "inconsistent tensor frame record")
	}
	feat := make(map[stype.Type]tensor.Tensor, len(rec.Types))
	names := make(map[stype.Type][]string, len(rec.Types))
	for i, t := range rec.Types {
		ft, err := fromTensorRecord(rec.Feats[i])
		if err != nil {
			return nil, err
		}
		feat[t] = ft
		names[t] = rec.ColNames[i]
	}
	var y tensor.Tensor
	if rec.HasY {
		var err error
		if y, err = fromTensorRecord(rec.Y); err != nil {
			return nil, err
		}
	}
	return New(rec.NumRows, feat, names, y)
}
