// Package shuffle implements the swap-or-not permutation phase0 uses to
// derive committees from a seed: ShuffleList/UnshuffleList walk an entire
// index list through SHUFFLE_ROUND_COUNT rounds in one pass, and
// ComputeShuffledIndex answers the same question for a single index without
// materializing the list, for callers (like proposer selection) that only
// need one slot of the permutation.
package shuffle

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/prysmaticlabs/beacon-engine/config/params"
	"github.com/prysmaticlabs/beacon-engine/consensus-types/primitives"
	"github.com/prysmaticlabs/beacon-engine/crypto/hash"
	"github.com/prysmaticlabs/beacon-engine/encoding/bytesutil"
)

// Layout of the reusable hash-input buffer: a 32-byte seed, a 1-byte round
// counter, and a 4-byte position window, reused across every round and
// every swap boundary within a round instead of being reallocated.
const (
	seedSize           = 32
	roundSize          = 1
	positionWindowSize = 4
	pivotViewSize      = seedSize + roundSize
	totalSize          = seedSize + roundSize + positionWindowSize
)

// ShuffleList applies the forward permutation (round 0 to ROUND_COUNT-1) to
// input in place, returning it for chaining. Its output at position i is
// ComputeShuffledIndex(i, ..., false) of the input list.
func ShuffleList(input []primitives.ValidatorIndex, seed [32]byte) ([]primitives.ValidatorIndex, error) {
	return innerShuffleList(input, seed, true)
}

// UnshuffleList applies the inverse permutation (round ROUND_COUNT-1 down to
// 0), recovering original indices from shuffled ones. Its output at position
// i is ComputeShuffledIndex(i, ..., true) of the input list, which is why it
// is used to derive a shuffling epoch's committee order from its seed.
func UnshuffleList(input []primitives.ValidatorIndex, seed [32]byte) ([]primitives.ValidatorIndex, error) {
	return innerShuffleList(input, seed, false)
}

func innerShuffleList(input []primitives.ValidatorIndex, seed [32]byte, forward bool) ([]primitives.ValidatorIndex, error) {
	if len(input) <= 1 {
		return input, nil
	}
	rounds := uint8(params.BeaconConfig().ShuffleRoundCount)
	if rounds == 0 {
		return input, nil
	}
	listSize := uint64(len(input))

	buf := make([]byte, totalSize)
	r := uint8(0)
	if !forward {
		r = rounds - 1
	}
	copy(buf[:seedSize], seed[:])

	for {
		buf[seedSize] = r
		ph := hash.Hash(buf[:pivotViewSize])
		pivot := bytesutil.FromBytes8(ph[:8]) % listSize

		mirror := (pivot + 1) >> 1
		binary.LittleEndian.PutUint32(buf[pivotViewSize:], uint32(pivot>>8))
		source := hash.Hash(buf)
		byteV := source[(pivot&0xff)>>3]
		var index uint64
		for ; index < mirror; index++ {
			j := pivot - index
			if j&0xff == 0xff {
				binary.LittleEndian.PutUint32(buf[pivotViewSize:], uint32(j>>8))
				source = hash.Hash(buf)
			}
			if j&0x07 == 0x07 || index == 0 {
				byteV = source[(j&0xff)>>3]
			}
			bitV := (byteV >> (j & 0x07)) & 0x01
			if bitV == 1 {
				input[index], input[j] = input[j], input[index]
			}
		}

		mirror = (pivot + listSize + 1) >> 1
		end := listSize - 1
		binary.LittleEndian.PutUint32(buf[pivotViewSize:], uint32(end>>8))
		source = hash.Hash(buf)
		byteV = source[(end&0xff)>>3]
		for index = pivot + 1; index < mirror; index++ {
			j := pivot + listSize - index
			if j&0xff == 0xff {
				binary.LittleEndian.PutUint32(buf[pivotViewSize:], uint32(j>>8))
				source = hash.Hash(buf)
			}
			if j&0x07 == 0x07 || index == mirror-1 && pivot+1 == mirror {
				byteV = source[(j&0xff)>>3]
			}
			bitV := (byteV >> (j & 0x07)) & 0x01
			if bitV == 1 {
				input[index], input[j] = input[j], input[index]
			}
		}

		if forward {
			r++
			if r == rounds {
				break
			}
		} else {
			if r == 0 {
				break
			}
			r--
		}
	}
	return input, nil
}

// ComputeShuffledIndex answers the permutation for a single index without
// shuffling the whole list, per fastspec.py's compute_shuffled_index: used
// by ComputeProposerIndex, which only ever needs one slot of the mapping.
func ComputeShuffledIndex(index, indexCount uint64, seed [32]byte, shuffle bool) (uint64, error) {
	if index >= indexCount {
		return 0, errors.Errorf("index %d out of range for count %d", index, indexCount)
	}
	rounds := uint8(params.BeaconConfig().ShuffleRoundCount)
	if rounds == 0 {
		return index, nil
	}

	buf := make([]byte, totalSize)
	copy(buf[:seedSize], seed[:])

	round := uint8(0)
	if !shuffle {
		round = rounds - 1
	}
	for {
		buf[seedSize] = round
		ph := hash.Hash(buf[:pivotViewSize])
		pivot := bytesutil.FromBytes8(ph[:8]) % indexCount
		flip := (pivot + indexCount - index) % indexCount
		position := index
		if flip > position {
			position = flip
		}
		binary.LittleEndian.PutUint32(buf[pivotViewSize:], uint32(position>>8))
		source := hash.Hash(buf)
		b := source[(position&0xff)>>3]
		bit := (b >> (position & 0x07)) & 0x01
		if bit == 1 {
			index = flip
		}

		if shuffle {
			round++
			if round == rounds {
				break
			}
		} else {
			if round == 0 {
				break
			}
			round--
		}
	}
	return index, nil
}
