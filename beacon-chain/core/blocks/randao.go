package blocks

import (
	"github.com/pkg/errors"

	coresigning "github.com/prysmaticlabs/beacon-engine/beacon-chain/core/signing"
	"github.com/prysmaticlabs/beacon-engine/beacon-chain/epochctx"
	"github.com/prysmaticlabs/beacon-engine/beacon-chain/state"
	"github.com/prysmaticlabs/beacon-engine/config/params"
	"github.com/prysmaticlabs/beacon-engine/consensus-types/primitives"
	"github.com/prysmaticlabs/beacon-engine/consensus-types/types"
	"github.com/prysmaticlabs/beacon-engine/crypto/bls"
	"github.com/prysmaticlabs/beacon-engine/crypto/hash"
	"github.com/prysmaticlabs/beacon-engine/encoding/bytesutil"
	ssz "github.com/prysmaticlabs/beacon-engine/encoding/ssz"
)

// epochUint64 wraps an Epoch so it can satisfy ssz.HashTreeRootable the way
// fastspec.py signs the raw epoch integer for the RANDAO reveal.
type epochUint64 primitives.Epoch

// HashTreeRoot returns the little-endian uint64 root of the wrapped epoch;
// a bare uint64 is its own SSZ basic-type root once padded to 32 bytes.
func (e epochUint64) HashTreeRoot() ([32]byte, error) {
	var root [32]byte
	copy(root[:8], bytesutil.Bytes8(uint64(e)))
	return root, nil
}

// HashTreeRootWith appends the wrapped epoch to hh, satisfying
// ssz.HashTreeRootable alongside HashTreeRoot.
func (e epochUint64) HashTreeRootWith(hh *ssz.Hasher) error {
	hh.PutUint64(uint64(e))
	return nil
}

// ProcessRandao verifies the proposer's RANDAO reveal and mixes it into the
// epoch's running randao_mixes entry.
func ProcessRandao(ctx *epochctx.Context, st *state.BeaconState, body *types.BeaconBlockBody) error {
	cfg := params.BeaconConfig()
	epoch := ctx.Current.Epoch

	proposerIndex, err := ctx.GetBeaconProposer(st.Slot)
	if err != nil {
		return err
	}
	proposer, err := st.ValidatorAtIndex(proposerIndex)
	if err != nil {
		return err
	}

	domain, err := coresigning.Domain(st.Fork, epoch, cfg.DomainRandao, st.GenesisValidatorsRoot)
	if err != nil {
		return err
	}
	signingRoot, err := coresigning.ComputeSigningRoot(epochUint64(epoch), domain)
	if err != nil {
		return err
	}
	if !bls.Verify(proposer.PublicKey[:], signingRoot, body.RandaoReveal[:]) {
		return ErrInvalidSignature
	}

	mixIndex := uint64(epoch) % uint64(cfg.EpochsPerHistoricalVector)
	if mixIndex >= uint64(len(st.RandaoMixes)) {
		return errors.Errorf("randao mix index %d out of range", mixIndex)
	}
	mixed := bytesutil.Xor(st.RandaoMixes[mixIndex], hash.Hash(body.RandaoReveal[:]))
	return st.SetRandaoMixAtIndex(mixIndex, mixed)
}
