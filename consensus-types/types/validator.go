package types

import (
	"github.com/prysmaticlabs/beacon-engine/consensus-types/primitives"
	ssz "github.com/prysmaticlabs/beacon-engine/encoding/ssz"
)

// Validator is a registry entry tracking one validator's deposit,
// activation, and exit lifecycle.
type Validator struct {
	PublicKey                  [48]byte
	WithdrawalCredentials       [32]byte
	EffectiveBalance            primitives.Gwei
	Slashed                     bool
	ActivationEligibilityEpoch primitives.Epoch
	ActivationEpoch             primitives.Epoch
	ExitEpoch                   primitives.Epoch
	WithdrawableEpoch           primitives.Epoch
}

// Copy returns a value copy of the validator.
func (v *Validator) Copy() *Validator {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}

// HashTreeRoot returns the Merkle root of the validator container.
func (v *Validator) HashTreeRoot() ([32]byte, error) {
	hh := ssz.NewHasher()
	if err := v.HashTreeRootWith(hh); err != nil {
		return [32]byte{}, err
	}
	return hh.HashRoot()
}

// HashTreeRootWith appends the validator's fields to an in-flight hasher.
func (v *Validator) HashTreeRootWith(hh *ssz.Hasher) error {
	hh.PutBytes(v.PublicKey[:])
	hh.PutBytes(v.WithdrawalCredentials[:])
	hh.PutUint64(uint64(v.EffectiveBalance))
	hh.PutBool(v.Slashed)
	hh.PutUint64(uint64(v.ActivationEligibilityEpoch))
	hh.PutUint64(uint64(v.ActivationEpoch))
	hh.PutUint64(uint64(v.ExitEpoch))
	hh.PutUint64(uint64(v.WithdrawableEpoch))
	return nil
}
