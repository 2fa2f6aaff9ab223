// Package state wraps the raw BeaconState container with the mutation
// methods the rest of the engine uses, so invariants (balances never
// negative, validator list and balances list length in lockstep) are
// enforced at a single seam rather than at every call site.
package state

import (
	"github.com/pkg/errors"

	"github.com/prysmaticlabs/beacon-engine/consensus-types/primitives"
	"github.com/prysmaticlabs/beacon-engine/consensus-types/types"
)

// BeaconState wraps a *types.BeaconState, adding the mutators the
// transition pipeline calls instead of poking fields directly.
type BeaconState struct {
	*types.BeaconState
}

// New wraps raw in a BeaconState.
func New(raw *types.BeaconState) *BeaconState {
	return &BeaconState{BeaconState: raw}
}

// Copy returns a deep copy of the state suitable for speculative execution
// (e.g. the skip-slot cache priming a future slot without mutating the
// canonical state).
func (b *BeaconState) Copy() *BeaconState {
	raw := *b.BeaconState
	raw.Fork = b.Fork.Copy()
	raw.LatestBlockHeader = b.LatestBlockHeader.Copy()
	raw.Eth1Data = b.Eth1Data.Copy()
	raw.PreviousJustifiedCheckpoint = b.PreviousJustifiedCheckpoint.Copy()
	raw.CurrentJustifiedCheckpoint = b.CurrentJustifiedCheckpoint.Copy()
	raw.FinalizedCheckpoint = b.FinalizedCheckpoint.Copy()

	raw.BlockRoots = append([][32]byte(nil), b.BlockRoots...)
	raw.StateRoots = append([][32]byte(nil), b.StateRoots...)
	raw.HistoricalRoots = append([][32]byte(nil), b.HistoricalRoots...)
	raw.RandaoMixes = append([][32]byte(nil), b.RandaoMixes...)
	raw.Slashings = append([]uint64(nil), b.Slashings...)
	raw.Balances = append([]uint64(nil), b.Balances...)

	raw.Validators = make([]*types.Validator, len(b.Validators))
	for i, v := range b.Validators {
		raw.Validators[i] = v.Copy()
	}
	raw.Eth1DataVotes = make([]*types.Eth1Data, len(b.Eth1DataVotes))
	for i, v := range b.Eth1DataVotes {
		raw.Eth1DataVotes[i] = v.Copy()
	}
	raw.PreviousEpochAttestations = append([]*types.PendingAttestation(nil), b.PreviousEpochAttestations...)
	raw.CurrentEpochAttestations = append([]*types.PendingAttestation(nil), b.CurrentEpochAttestations...)

	return &BeaconState{BeaconState: &raw}
}

// SetSlot advances the state's slot. The caller (ProcessSlots) is
// responsible for having already archived the outgoing slot's roots.
func (b *BeaconState) SetSlot(slot primitives.Slot) {
	b.Slot = slot
}

// SetBlockRootAtIndex writes root into the block_roots ring buffer at index.
func (b *BeaconState) SetBlockRootAtIndex(index uint64, root [32]byte) error {
	if index >= uint64(len(b.BlockRoots)) {
		return errors.Errorf("block root index %d out of range %d", index, len(b.BlockRoots))
	}
	b.BlockRoots[index] = root
	return nil
}

// SetStateRootAtIndex writes root into the state_roots ring buffer at index.
func (b *BeaconState) SetStateRootAtIndex(index uint64, root [32]byte) error {
	if index >= uint64(len(b.StateRoots)) {
		return errors.Errorf("state root index %d out of range %d", index, len(b.StateRoots))
	}
	b.StateRoots[index] = root
	return nil
}

// AppendHistoricalRoot appends to the growing historical_roots list.
func (b *BeaconState) AppendHistoricalRoot(root [32]byte) {
	b.HistoricalRoots = append(b.HistoricalRoots, root)
}

// SetRandaoMixAtIndex writes mix into the randao_mixes ring buffer at index.
func (b *BeaconState) SetRandaoMixAtIndex(index uint64, mix [32]byte) error {
	if index >= uint64(len(b.RandaoMixes)) {
		return errors.Errorf("randao mix index %d out of range %d", index, len(b.RandaoMixes))
	}
	b.RandaoMixes[index] = mix
	return nil
}

// ValidatorAtIndex returns the validator at index, bounds-checked.
func (b *BeaconState) ValidatorAtIndex(i primitives.ValidatorIndex) (*types.Validator, error) {
	if uint64(i) >= uint64(len(b.Validators)) {
		return nil, errors.Errorf("validator index %d out of range %d", i, len(b.Validators))
	}
	return b.Validators[i], nil
}

// UpdateValidatorAtIndex replaces the validator at index.
func (b *BeaconState) UpdateValidatorAtIndex(i primitives.ValidatorIndex, v *types.Validator) error {
	if uint64(i) >= uint64(len(b.Validators)) {
		return errors.Errorf("validator index %d out of range %d", i, len(b.Validators))
	}
	b.Validators[i] = v
	return nil
}

// AppendValidator adds a newly-deposited validator and its initial balance,
// keeping the two lists in lockstep (BeaconState's P2-adjacent invariant).
func (b *BeaconState) AppendValidator(v *types.Validator, balance uint64) {
	b.Validators = append(b.Validators, v)
	b.Balances = append(b.Balances, balance)
}

// BalanceAtIndex returns the balance at index, bounds-checked.
func (b *BeaconState) BalanceAtIndex(i primitives.ValidatorIndex) (uint64, error) {
	if uint64(i) >= uint64(len(b.Balances)) {
		return 0, errors.Errorf("balance index %d out of range %d", i, len(b.Balances))
	}
	return b.Balances[i], nil
}

// IncreaseBalance adds delta to the balance at index.
func (b *BeaconState) IncreaseBalance(i primitives.ValidatorIndex, delta uint64) error {
	if uint64(i) >= uint64(len(b.Balances)) {
		return errors.Errorf("balance index %d out of range %d", i, len(b.Balances))
	}
	b.Balances[i] += delta
	return nil
}

// DecreaseBalance subtracts delta from the balance at index, floored at
// zero rather than underflowing.
func (b *BeaconState) DecreaseBalance(i primitives.ValidatorIndex, delta uint64) error {
	if uint64(i) >= uint64(len(b.Balances)) {
		return errors.Errorf("balance index %d out of range %d", i, len(b.Balances))
	}
	if delta > b.Balances[i] {
		b.Balances[i] = 0
		return nil
	}
	b.Balances[i] -= delta
	return nil
}

// SetSlashingAtIndex writes amount into the slashings ring buffer at index.
func (b *BeaconState) SetSlashingAtIndex(index uint64, amount uint64) error {
	if index >= uint64(len(b.Slashings)) {
		return errors.Errorf("slashing index %d out of range %d", index, len(b.Slashings))
	}
	b.Slashings[index] = amount
	return nil
}

// NumValidators returns the length of the validator registry.
func (b *BeaconState) NumValidators() int {
	return len(b.Validators)
}

// ValidatorIterator returns a read-only streaming iterator over the
// validator registry, letting callers scan without cloning the slice.
func (b *BeaconState) ValidatorIterator() *validatorIterator {
	return &validatorIterator{validators: b.Validators}
}

type validatorIterator struct {
	validators []*types.Validator
	pos        int
}

// Next returns the next validator and its index, or nil/false once exhausted.
func (it *validatorIterator) Next() (*types.Validator, primitives.ValidatorIndex, bool) {
	if it.pos >= len(it.validators) {
		return nil, 0, false
	}
	v := it.validators[it.pos]
	idx := primitives.ValidatorIndex(it.pos)
	it.pos++
	return v, idx, true
}
