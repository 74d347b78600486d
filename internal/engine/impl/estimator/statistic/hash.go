package statistic

import (
	"encoding/binary"

	"github.com/spaolacci/murmur3"
)

const checksumSeed uint32 = 0xa5eed

// keyChecksum is the 32-bit integrity hash stored alongside every key
// sum. Both peers must compute it identically, so the seed is fixed.
func keyChecksum(key Key) uint32 {
	var kb [8]byte
	binary.LittleEndian.PutUint64(kb[:], uint64(key))
	return murmur3.Sum32WithSeed(kb[:], checksumSeed)
}

// bucketIndices derives the hashnum distinct bucket positions of key in
// a filter of the given size. The salt walks forward past duplicate
// candidates, so a key never lands twice in one bucket (which would
// XOR-cancel its own contribution). Deterministic: peers with equal
// geometry derive equal positions.
func bucketIndices(key Key, size, hashnum uint32) []uint32 {
	var kb [8]byte
	binary.LittleEndian.PutUint64(kb[:], uint64(key))

	indices := make([]uint32, 0, hashnum)
	for salt := uint32(0); uint32(len(indices)) < hashnum; salt++ {
		idx := murmur3.Sum32WithSeed(kb[:], salt) % size
		taken := false
		for _, prev := range indices {
			if prev == idx {
				taken = true
				break
			}
		}
		if !taken {
			indices = append(indices, idx)
		}
	}
	return indices
}
