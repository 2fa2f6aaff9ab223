// Package stateutils builds lookup indexes over BeaconState that would
// otherwise cost an O(n) scan per call, mirroring the host project's
// validator pubkey cache.
package stateutils

import (
	"github.com/prysmaticlabs/beacon-engine/beacon-chain/state"
	"github.com/prysmaticlabs/beacon-engine/consensus-types/primitives"
)

// PublicKeyToIndex maps a validator's 48-byte BLS public key to its index in
// the validator registry, the inverse lookup the epoch context needs when
// resolving signatures back to shuffled committee slots.
type PublicKeyToIndex map[[48]byte]primitives.ValidatorIndex

// BuildPublicKeyToIndex scans st's validator registry once, building a
// fresh pubkey-to-index map.
func BuildPublicKeyToIndex(st *state.BeaconState) PublicKeyToIndex {
	m := make(PublicKeyToIndex, st.NumValidators())
	it := st.ValidatorIterator()
	for {
		v, idx, ok := it.Next()
		if !ok {
			break
		}
		m[v.PublicKey] = idx
	}
	return m
}

// Extend appends entries for validators newly added to st past the indices
// m already knows about, avoiding a full rebuild after a handful of
// deposits land in a block.
func (m PublicKeyToIndex) Extend(st *state.BeaconState, fromIndex int) {
	for i := fromIndex; i < st.NumValidators(); i++ {
		v, err := st.ValidatorAtIndex(primitives.ValidatorIndex(i))
		if err != nil {
			continue
		}
		m[v.PublicKey] = primitives.ValidatorIndex(i)
	}
}

// Copy returns a shallow copy of the map (keys/values are both value types).
func (m PublicKeyToIndex) Copy() PublicKeyToIndex {
	cp := make(PublicKeyToIndex, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}
