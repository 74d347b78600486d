package statistic

import (
	"fmt"
)

const (
	defaultIBFSize    = 80
	defaultIBFHashnum = 4
)

// Key is an opaque 64-bit set element, typically itself a hash of a
// real application-level item.
type Key uint64

// Bucket accumulates every key hashed into it. KeySum and KeyHash are
// XOR sums (self-inverse, so insert order never matters), Count is a
// signed tally. A bucket with Count == +1 or -1 whose KeyHash matches
// the checksum of KeySum holds exactly one net key and can be peeled.
type Bucket struct {
	KeySum  Key
	KeyHash uint32
	Count   int32
}

// DecodeResult reports the outcome of a single Decode step.
type DecodeResult int

const (
	// DecodeMore: a pure cell was found, its key removed and returned.
	DecodeMore DecodeResult = iota
	// DecodeDone: no pure cell remains and the filter is empty.
	DecodeDone
	// DecodeFailed: no pure cell remains but residue is left over, the
	// remaining keys collide too heavily to peel.
	DecodeFailed
)

// IBF is an Invertible Bloom Filter over 64-bit keys. It is a
// reversible, order-independent accumulator: keys can be inserted,
// removed, and two same-geometry filters can be subtracted so that the
// symmetric difference of their key sets surfaces as peelable cells.
// Not safe for concurrent use.
type IBF struct {
	size    uint32
	hashnum uint32
	buckets []Bucket
}

// NewIBF allocates a zeroed filter with size buckets, mapping each key
// to hashnum distinct bucket indices.
func NewIBF(size, hashnum uint32) (*IBF, error) {
	if size == 0 {
		return nil, fmt.Errorf("ibf size must be positive")
	}
	if hashnum == 0 || hashnum > size {
		return nil, fmt.Errorf("ibf hashnum %d out of range (1..%d)", hashnum, size)
	}
	return &IBF{
		size:    size,
		hashnum: hashnum,
		buckets: make([]Bucket, size),
	}, nil
}

// Size returns the number of buckets.
func (f *IBF) Size() uint32 {
	return f.size
}

// Hashnum returns the number of bucket indices each key maps to.
func (f *IBF) Hashnum() uint32 {
	return f.hashnum
}

// apply adds one key with the given count sign at every index position
// of the key. Insert, Remove and the peeling step all funnel through
// here; XOR makes the sum updates identical in every case.
func (f *IBF) apply(key Key, sign int32) {
	sum := keyChecksum(key)
	for _, idx := range bucketIndices(key, f.size, f.hashnum) {
		f.buckets[idx].KeySum ^= key
		f.buckets[idx].KeyHash ^= sum
		f.buckets[idx].Count += sign
	}
}

// Insert adds key to the filter.
func (f *IBF) Insert(key Key) {
	f.apply(key, 1)
}

// Remove cancels a prior Insert of key. Removing a key that was never
// inserted is valid and leaves the filter representing a negative
// membership, which Decode reports with side -1.
func (f *IBF) Remove(key Key) {
	f.apply(key, -1)
}

// Subtract combines other into f cell by cell, so that f afterwards
// represents the symmetric difference of the two key multisets. This is
// a one-shot operation: subtracting the same filter twice re-applies
// it. Use Dup first to keep the original.
func (f *IBF) Subtract(other *IBF) error {
	if f.size != other.size || f.hashnum != other.hashnum {
		return fmt.Errorf("ibf geometry mismatch: %dx%d vs %dx%d",
			f.size, f.hashnum, other.size, other.hashnum)
	}
	for i := range f.buckets {
		f.buckets[i].KeySum ^= other.buckets[i].KeySum
		f.buckets[i].KeyHash ^= other.buckets[i].KeyHash
		f.buckets[i].Count -= other.buckets[i].Count
	}
	return nil
}

// Decode extracts one pure cell from the filter. It returns the peeled
// key, its side (+1 if net-inserted, -1 if net-removed) and DecodeMore,
// removing the key's full contribution so further cells may become
// pure. When no pure cell remains it returns DecodeDone on an empty
// filter and DecodeFailed when undecodable residue is left.
func (f *IBF) Decode() (Key, int, DecodeResult) {
	for i := range f.buckets {
		b := &f.buckets[i]
		if b.Count != 1 && b.Count != -1 {
			continue
		}
		// Guard against accidental collisions producing a fake
		// count of +-1: the checksum must match the candidate key.
		if keyChecksum(b.KeySum) != b.KeyHash {
			continue
		}
		key := b.KeySum
		side := int(b.Count)
		f.apply(key, int32(-side))
		return key, side, DecodeMore
	}
	for i := range f.buckets {
		b := &f.buckets[i]
		if b.Count != 0 || b.KeySum != 0 || b.KeyHash != 0 {
			return 0, 0, DecodeFailed
		}
	}
	return 0, 0, DecodeDone
}

// Dup deep-copies the filter.
func (f *IBF) Dup() *IBF {
	buckets := make([]Bucket, len(f.buckets))
	copy(buckets, f.buckets)
	return &IBF{
		size:    f.size,
		hashnum: f.hashnum,
		buckets: buckets,
	}
}

// Equal reports whether both filters have identical geometry and bucket
// contents.
func (f *IBF) Equal(other *IBF) bool {
	if f.size != other.size || f.hashnum != other.hashnum {
		return false
	}
	for i := range f.buckets {
		if f.buckets[i] != other.buckets[i] {
			return false
		}
	}
	return true
}
