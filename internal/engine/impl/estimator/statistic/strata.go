package statistic

import (
	"fmt"
	"math/bits"
)

const defaultStrataCount = 32

// StrataEstimator estimates the size of the symmetric difference
// between two large key sets without holding either set. Keys are
// routed into one of strataCount small IBFs by their trailing-one-bit
// count, so stratum 0 takes about half of all keys, stratum 1 a
// quarter, and so on. High strata stay sparse enough to decode fully;
// when a dense stratum refuses to decode, the estimate is extrapolated
// from the strata already resolved.
//
// Two estimators can only be compared when their strata count and IBF
// geometry match exactly. Not safe for concurrent use.
type StrataEstimator struct {
	strataCount uint32
	ibfSize     uint32
	ibfHashnum  uint32
	strata      []*IBF
}

// NewStrataEstimator allocates strataCount empty IBFs of the given
// geometry. Zero parameters take the defaults (32 strata of 80 buckets,
// 4 hashes).
func NewStrataEstimator(strataCount, ibfSize, ibfHashnum uint32) (*StrataEstimator, error) {
	if strataCount == 0 {
		strataCount = defaultStrataCount
	}
	if ibfSize == 0 {
		ibfSize = defaultIBFSize
	}
	if ibfHashnum == 0 {
		ibfHashnum = defaultIBFHashnum
	}

	strata := make([]*IBF, strataCount)
	for i := range strata {
		ibf, err := NewIBF(ibfSize, ibfHashnum)
		if err != nil {
			return nil, fmt.Errorf("stratum %d: %w", i, err)
		}
		strata[i] = ibf
	}

	return &StrataEstimator{
		strataCount: strataCount,
		ibfSize:     ibfSize,
		ibfHashnum:  ibfHashnum,
		strata:      strata,
	}, nil
}

// StrataCount returns the number of strata.
func (se *StrataEstimator) StrataCount() uint32 {
	return se.strataCount
}

// IBFSize returns the bucket count of each stratum IBF.
func (se *StrataEstimator) IBFSize() uint32 {
	return se.ibfSize
}

// IBFHashnum returns the hash count of each stratum IBF.
func (se *StrataEstimator) IBFHashnum() uint32 {
	return se.ibfHashnum
}

// stratumOf routes a key by its number of trailing one-bits. Keys with
// more trailing ones than there are strata are clamped into the last
// stratum (a 2^-strataCount event for random keys).
func (se *StrataEstimator) stratumOf(key Key) uint32 {
	i := uint32(bits.TrailingZeros64(^uint64(key)))
	if i >= se.strataCount {
		i = se.strataCount - 1
	}
	return i
}

// Insert adds key to its stratum.
func (se *StrataEstimator) Insert(key Key) {
	se.strata[se.stratumOf(key)].Insert(key)
}

// Remove cancels a prior Insert of key.
func (se *StrataEstimator) Remove(key Key) {
	se.strata[se.stratumOf(key)].Remove(key)
}

// Dup deep-copies the estimator, every stratum included.
func (se *StrataEstimator) Dup() *StrataEstimator {
	strata := make([]*IBF, len(se.strata))
	for i, ibf := range se.strata {
		strata[i] = ibf.Dup()
	}
	return &StrataEstimator{
		strataCount: se.strataCount,
		ibfSize:     se.ibfSize,
		ibfHashnum:  se.ibfHashnum,
		strata:      strata,
	}
}

// Equal reports whether both estimators have identical parameters and
// bucket contents.
func (se *StrataEstimator) Equal(other *StrataEstimator) bool {
	if se.strataCount != other.strataCount {
		return false
	}
	for i := range se.strata {
		if !se.strata[i].Equal(other.strata[i]) {
			return false
		}
	}
	return true
}

// Difference estimates the size of the symmetric difference between the
// key sets summarized by se and other. Parameters must match exactly.
//
// Strata are walked from the sparsest (highest index) down to the
// densest. Each stratum's pair of IBFs is subtracted on a duplicate and
// peeled to completion; fully decoded strata contribute their exact
// count. The first stratum that fails to decode, or that yields more
// keys than its IBF has buckets, stops the walk: since density roughly
// doubles per stratum, the total resolved so far is scaled by 2^(i+1)
// to cover the unresolved remainder. The stuck stratum's partial
// decodes are not included in the scaled total.
func (se *StrataEstimator) Difference(other *StrataEstimator) (uint64, error) {
	if se.strataCount != other.strataCount || se.ibfSize != other.ibfSize || se.ibfHashnum != other.ibfHashnum {
		return 0, fmt.Errorf("estimator parameter mismatch: %d/%d/%d vs %d/%d/%d",
			se.strataCount, se.ibfSize, se.ibfHashnum,
			other.strataCount, other.ibfSize, other.ibfHashnum)
	}

	var total uint64
	for i := int(se.strataCount) - 1; i >= 0; i-- {
		diff := se.strata[i].Dup()
		if err := diff.Subtract(other.strata[i]); err != nil {
			return 0, err
		}

		var decoded uint64
		for {
			_, _, res := diff.Decode()
			if res == DecodeDone {
				total += decoded
				break
			}
			if res == DecodeFailed || decoded > uint64(se.ibfSize) {
				return total << uint(i+1), nil
			}
			decoded++
		}
	}
	return total, nil
}
