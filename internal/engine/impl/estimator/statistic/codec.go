package statistic

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Wire layout: each bucket is a fixed 16-byte big-endian record of
// 8 bytes KeySum, 4 bytes KeyHash, 4 bytes two's-complement Count. An
// estimator serializes as strataCount consecutive IBF dumps of ibfSize
// buckets each, in stratum order, with no separators or length prefix.
// Both peers must agree on the parameters out of band; the buffer
// carries no header to recover them from.
const bucketWireSize = 16

// SerializedSize returns the exact byte length of the wire form.
func (se *StrataEstimator) SerializedSize() int {
	return int(se.strataCount) * int(se.ibfSize) * bucketWireSize
}

// WriteTo serializes the estimator. Implements io.WriterTo.
func (se *StrataEstimator) WriteTo(w io.Writer) (int64, error) {
	var rec [bucketWireSize]byte
	var written int64
	for _, ibf := range se.strata {
		for i := range ibf.buckets {
			b := &ibf.buckets[i]
			binary.BigEndian.PutUint64(rec[0:8], uint64(b.KeySum))
			binary.BigEndian.PutUint32(rec[8:12], b.KeyHash)
			binary.BigEndian.PutUint32(rec[12:16], uint32(b.Count))
			n, err := w.Write(rec[:])
			written += int64(n)
			if err != nil {
				return written, err
			}
		}
	}
	return written, nil
}

// ReadFrom fills the estimator from its wire form, overwriting all
// bucket state. The estimator must already be allocated with the same
// parameters the sender used. Implements io.ReaderFrom.
func (se *StrataEstimator) ReadFrom(r io.Reader) (int64, error) {
	var rec [bucketWireSize]byte
	var read int64
	for s, ibf := range se.strata {
		for i := range ibf.buckets {
			n, err := io.ReadFull(r, rec[:])
			read += int64(n)
			if err != nil {
				return read, fmt.Errorf("stratum %d bucket %d: %w", s, i, err)
			}
			ibf.buckets[i] = Bucket{
				KeySum:  Key(binary.BigEndian.Uint64(rec[0:8])),
				KeyHash: binary.BigEndian.Uint32(rec[8:12]),
				Count:   int32(binary.BigEndian.Uint32(rec[12:16])),
			}
		}
	}
	return read, nil
}

// Bytes returns the serialized estimator.
func (se *StrataEstimator) Bytes() []byte {
	var buf bytes.Buffer
	buf.Grow(se.SerializedSize())
	se.WriteTo(&buf) // cannot fail on a bytes.Buffer
	return buf.Bytes()
}

// SetBytes fills the estimator from a buffer of exactly SerializedSize
// bytes.
func (se *StrataEstimator) SetBytes(data []byte) error {
	if len(data) != se.SerializedSize() {
		return fmt.Errorf("serialized estimator must be %d bytes, got %d",
			se.SerializedSize(), len(data))
	}
	_, err := se.ReadFrom(bytes.NewReader(data))
	return err
}
